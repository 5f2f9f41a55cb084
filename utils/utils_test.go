package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, "ada", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)

	again, err := GenerateToken("secret", 42, "ada", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", 1, "ada", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "read chapter 3 & 4", SanitizeText("<b>read</b> chapter 3 & 4<script>alert(1)</script>"))
	assert.Equal(t, "plain", SanitizeText("  plain "))
	assert.Equal(t, "", SanitizeText("<img src=x>"))
}

func TestTokenBlacklistInMemory(t *testing.T) {
	ctx := context.Background()
	bl := NewTokenBlacklist(nil)

	require.NoError(t, bl.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	assert.True(t, bl.IsRevoked(ctx, "abc"))
	assert.False(t, bl.IsRevoked(ctx, "def"))

	require.NoError(t, bl.Revoke(ctx, "expired", time.Now().Add(-time.Minute)))
	assert.False(t, bl.IsRevoked(ctx, "expired"))
}

func TestTokenBlacklistRevokeSweepsExpired(t *testing.T) {
	ctx := context.Background()
	bl := NewTokenBlacklist(nil)

	require.NoError(t, bl.Revoke(ctx, "short", time.Now().Add(20*time.Millisecond)))
	require.NoError(t, bl.Revoke(ctx, "other", time.Now().Add(20*time.Millisecond)))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, bl.Revoke(ctx, "long", time.Now().Add(time.Minute)))

	bl.mu.RLock()
	defer bl.mu.RUnlock()
	assert.Len(t, bl.entries, 1)
	assert.Contains(t, bl.entries, "long")
}

func TestTokenBlacklistRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	bl := NewTokenBlacklist(rdb)
	require.NoError(t, bl.Revoke(ctx, "abc", time.Now().Add(time.Minute)))

	assert.True(t, bl.IsRevoked(ctx, "abc"))
	assert.True(t, mr.Exists(blacklistKeyPrefix+"abc"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, bl.IsRevoked(ctx, "abc"))
}

func TestSaveThumbnailShrinksLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 400))
	for x := 0; x < 1000; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	dst := filepath.Join(t.TempDir(), "avatars", "a.png")
	require.NoError(t, SaveThumbnail(&buf, dst, 500))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestSaveThumbnailRejectsGarbage(t *testing.T) {
	err := SaveThumbnail(bytes.NewReader([]byte("not an image")), filepath.Join(t.TempDir(), "x.jpg"), 500)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImageExtension(t *testing.T) {
	assert.Equal(t, "png", ImageExtension("me.PNG"))
	assert.Equal(t, "jpg", ImageExtension("me.webp"))
	assert.Equal(t, "jpg", ImageExtension("noext"))
}

func TestServeUntilDoneStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package utils

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/consigliere/models"
)

// StartUploadCleaner launches a background goroutine that periodically deletes
// profile pictures no user refers to any more. It stops when ctx is cancelled.
func StartUploadCleaner(ctx context.Context, db *gorm.DB, dir string, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := SweepOrphanUploads(ctx, db, dir, interval); err != nil {
					Sugar.Warnw("upload cleaner failed", "error", err)
				} else if n > 0 {
					Sugar.Infow("upload cleaner removed orphans", "count", n)
				}
			}
		}
	}()
}

// SweepOrphanUploads removes files in dir that are older than grace and not
// referenced by any user's profile picture. Younger files may belong to an
// upload whose database update has not committed yet.
func SweepOrphanUploads(ctx context.Context, db *gorm.DB, dir string, grace time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var referenced []string
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("profile_picture <> ''").
		Pluck("profile_picture", &referenced).Error; err != nil {
		return 0, err
	}
	keep := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		keep[name] = struct{}{}
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

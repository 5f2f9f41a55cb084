package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/consigliere/models"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(context.Background(), " Ada@Example.com ", "ada_l", "secret123")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "ada_l", user.Username)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Equal(t, 10, user.PagesGoal)
	assert.Equal(t, 1, user.VideosGoal)

	streak := f.storedStreak(t, user.ID)
	assert.Zero(t, streak.CurrentStreak)
	assert.Zero(t, streak.LongestStreak)
	assert.Nil(t, streak.LastCheckInDate)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada")

	cases := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{"bad email", "not-an-email", "bob", "secret123", ErrValidation},
		{"short username", "bob@example.com", "bo", "secret123", ErrValidation},
		{"username symbols", "bob@example.com", "bob!", "secret123", ErrValidation},
		{"short password", "bob@example.com", "bob", "12345", ErrValidation},
		{"short multibyte password", "bob@example.com", "bob", "ключи", ErrValidation},
		{"password over 72 bytes", "bob@example.com", "bob", strings.Repeat("a", 73), ErrValidation},
		{"multibyte password over 72 bytes", "bob@example.com", "bob", strings.Repeat("я", 37), ErrValidation},
		{"email taken", "ADA@example.com", "bob", "secret123", ErrEmailTaken},
		{"username taken", "bob@example.com", "ada", "secret123", ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tc.email, tc.username, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRegisterPasswordLimits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	passwords := map[string]string{
		"cyrillic": "пароль",
		"maxbytes": strings.Repeat("a", 72),
	}
	for username, password := range passwords {
		_, err := f.users.Register(ctx, username+"@example.com", username, password)
		require.NoError(t, err, username)

		user, err := f.users.Authenticate(ctx, username+"@example.com", password)
		require.NoError(t, err, username)
		assert.Equal(t, username, user.Username)
	}
}

func TestDuplicateUserErrorClassification(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada")
	ctx := context.Background()

	assert.ErrorIs(t, f.users.duplicateUserError(ctx, "ada"), ErrUsernameTaken)
	assert.ErrorIs(t, f.users.duplicateUserError(ctx, "grace"), ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "ada")
	ctx := context.Background()

	user, err := f.users.Authenticate(ctx, "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = f.users.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateGoals(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	ctx := context.Background()

	updated, err := f.users.UpdateGoals(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, updated.PagesGoal)

	reloaded, err := f.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.PagesGoal)
	assert.Zero(t, reloaded.VideosGoal)

	_, err = f.users.UpdateGoals(ctx, user.ID, 1001, 1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.users.UpdateGoals(ctx, user.ID, 10, 101)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.users.UpdateGoals(ctx, 999, 10, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePicture(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	ctx := context.Background()

	previous, err := f.users.UpdateProfilePicture(ctx, user.ID, "a.jpg")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = f.users.UpdateProfilePicture(ctx, user.ID, "b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", previous)
}

func TestDeleteUserRemovesEverything(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "ada")
	bob := f.register(t, "bob")
	f.checkIn(t, ada.ID, "2024-03-01", 1, 1)
	f.checkIn(t, ada.ID, "2024-03-02", 1, 1)
	f.checkIn(t, bob.ID, "2024-03-01", 1, 1)

	deleted, err := f.users.Delete(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, deleted.ID)

	_, err = f.users.Get(context.Background(), ada.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var checkIns, streaks int64
	require.NoError(t, f.db.Model(&models.CheckIn{}).Where("user_id = ?", ada.ID).Count(&checkIns).Error)
	require.NoError(t, f.db.Model(&models.Streak{}).Where("user_id = ?", ada.ID).Count(&streaks).Error)
	assert.Zero(t, checkIns)
	assert.Zero(t, streaks)

	assert.Equal(t, 1, f.storedStreak(t, bob.ID).CurrentStreak)

	_, err = f.users.Delete(context.Background(), ada.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

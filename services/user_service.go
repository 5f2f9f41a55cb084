package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/consigliere/config"
	"github.com/cppla/consigliere/models"
	"github.com/cppla/consigliere/utils"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

const (
	maxPagesGoal  = 1000
	maxVideosGoal = 100

	minPasswordChars = 6
	maxPasswordChars = 100
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// UserService manages accounts and their goals.
type UserService struct {
	db                *gorm.DB
	defaultPagesGoal  int
	defaultVideosGoal int
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB, cfg config.AppConfig) *UserService {
	return &UserService{
		db:                db,
		defaultPagesGoal:  cfg.DefaultPagesGoal,
		defaultVideosGoal: cfg.DefaultVideosGoal,
	}
}

// Register creates a user together with an empty streak record.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-30 letters, digits or underscores", ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		PagesGoal:    s.defaultPagesGoal,
		VideosGoal:   s.defaultVideosGoal,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return gorm.ErrDuplicatedKey
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Create(&models.Streak{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("create streak: %w", err)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent register committed between the checks and the insert
		return nil, s.duplicateUserError(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordChars || n > maxPasswordChars || len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be %d-%d characters and at most %d bytes",
			ErrValidation, minPasswordChars, maxPasswordChars, maxPasswordBytes)
	}
	return nil
}

// duplicateUserError reports which unique column a failed insert collided with.
func (s *UserService) duplicateUserError(ctx context.Context, username string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("classify duplicate user: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

// Authenticate returns the user whose email and password match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// UpdateGoals sets the daily thresholds used by goal-success analytics.
func (s *UserService) UpdateGoals(ctx context.Context, userID uint, pagesGoal, videosGoal int) (*models.User, error) {
	if pagesGoal < 0 || pagesGoal > maxPagesGoal {
		return nil, fmt.Errorf("%w: pages_goal must be between 0 and %d", ErrValidation, maxPagesGoal)
	}
	if videosGoal < 0 || videosGoal > maxVideosGoal {
		return nil, fmt.Errorf("%w: videos_goal must be between 0 and %d", ErrValidation, maxVideosGoal)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	// a map keeps zero goals from being skipped
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"pages_goal":  pagesGoal,
		"videos_goal": videosGoal,
	}).Error; err != nil {
		return nil, fmt.Errorf("update goals: %w", err)
	}
	user.PagesGoal, user.VideosGoal = pagesGoal, videosGoal
	return user, nil
}

// UpdateProfilePicture stores the new picture filename and returns the previous one.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID uint, filename string) (string, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	previous := user.ProfilePicture
	if err := s.db.WithContext(ctx).Model(user).Update("profile_picture", filename).Error; err != nil {
		return "", fmt.Errorf("update profile picture: %w", err)
	}
	return previous, nil
}

// Delete removes the user with all check-ins and the streak record.
func (s *UserService) Delete(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CheckIn{}).Error; err != nil {
			return fmt.Errorf("delete check-ins: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Streak{}).Error; err != nil {
			return fmt.Errorf("delete streak: %w", err)
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

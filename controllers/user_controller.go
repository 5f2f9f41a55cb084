package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

const profilePictureMaxSide = 500

// UserController serves the authenticated user's own account.
type UserController struct {
	users         *services.UserService
	blacklist     *utils.TokenBlacklist
	tokenTTL      time.Duration
	uploadDir     string
	maxUploadSize int64
}

// NewUserController creates a UserController storing pictures under uploadDir.
func NewUserController(users *services.UserService, blacklist *utils.TokenBlacklist, tokenTTL time.Duration, uploadDir string, maxUploadSize int64) *UserController {
	return &UserController{
		users:         users,
		blacklist:     blacklist,
		tokenTTL:      tokenTTL,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

// Profile returns the current authenticated user's information.
func (u *UserController) Profile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	user, err := u.users.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err, 50010, "failed to load user")
		return
	}
	utils.Success(ctx, user)
}

// UpdateGoals sets the daily pages and videos goals.
func (u *UserController) UpdateGoals(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req struct {
		PagesGoal  *int `json:"pages_goal" binding:"required"`
		VideosGoal *int `json:"videos_goal" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	user, err := u.users.UpdateGoals(ctx.Request.Context(), userID, *req.PagesGoal, *req.VideosGoal)
	if err != nil {
		respondServiceError(ctx, err, 50011, "failed to update goals")
		return
	}
	utils.Success(ctx, user)
}

// UploadProfilePicture stores a thumbnail of the uploaded image and replaces the old one.
func (u *UserController) UploadProfilePicture(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	// leave room for the multipart envelope around the file itself
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, u.maxUploadSize+1<<20)
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		utils.Error(ctx, http.StatusBadRequest, 40031, "file must be an image")
		return
	}
	if header.Size > u.maxUploadSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, "file too large")
		return
	}

	filename := uuid.NewString() + "." + utils.ImageExtension(header.Filename)
	if err := utils.SaveThumbnail(file, filepath.Join(u.uploadDir, filename), profilePictureMaxSide); err != nil {
		if errors.Is(err, utils.ErrInvalidImage) {
			utils.Error(ctx, http.StatusBadRequest, 40033, "invalid image file")
			return
		}
		utils.Sugar.Errorw("save profile picture failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to save image")
		return
	}

	previous, err := u.users.UpdateProfilePicture(ctx.Request.Context(), userID, filename)
	if err != nil {
		_ = os.Remove(filepath.Join(u.uploadDir, filename))
		respondServiceError(ctx, err, 50031, "failed to update profile picture")
		return
	}
	u.removePicture(previous)

	utils.Success(ctx, gin.H{"filename": filename, "url": "/uploads/" + filename})
}

// Delete removes the account with all of its history and revokes the current token.
func (u *UserController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	user, err := u.users.Delete(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err, 50012, "failed to delete user")
		return
	}
	u.removePicture(user.ProfilePicture)
	if err := revokeCurrentToken(ctx, u.blacklist, u.tokenTTL); err != nil {
		utils.Sugar.Warnw("token revoke after delete failed", "user_id", userID, "error", err)
	}

	utils.Sugar.Infow("user deleted", "user_id", userID)
	utils.Success(ctx, gin.H{"message": "account deleted"})
}

func (u *UserController) removePicture(filename string) {
	if filename == "" {
		return
	}
	// stored names never contain separators; Base guards against tampered rows
	path := filepath.Join(u.uploadDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.Sugar.Warnw("remove old profile picture failed", "path", path, "error", err)
	}
}

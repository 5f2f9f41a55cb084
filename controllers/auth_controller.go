package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/middleware"
	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	users     *services.UserService
	blacklist *utils.TokenBlacklist
	secret    string
	tokenTTL  time.Duration
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService, blacklist *utils.TokenBlacklist, secret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{users: users, blacklist: blacklist, secret: secret, tokenTTL: tokenTTL}
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondServiceError(ctx, err, 50001, "failed to register user")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	utils.Created(ctx, user)
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err, 50003, "failed to log in")
		return
	}

	token, err := utils.GenerateToken(a.secret, user.ID, user.Username, a.tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	if err := revokeCurrentToken(ctx, a.blacklist, a.tokenTTL); err != nil {
		utils.Sugar.Warnw("token revoke failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to log out")
		return
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// revokeCurrentToken blacklists the request's bearer token until it would expire anyway.
func revokeCurrentToken(ctx *gin.Context, blacklist *utils.TokenBlacklist, ttl time.Duration) error {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" || blacklist == nil {
		return nil
	}
	expiresAt := time.Now().Add(ttl)
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}
	return blacklist.Revoke(ctx.Request.Context(), token, expiresAt)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/middleware"
	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// requireUserID answers 401 when the request carries no authenticated user.
func requireUserID(ctx *gin.Context) (uint, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	}
	return userID, ok
}

// respondServiceError maps service sentinels onto the response envelope. Anything
// unrecognised is logged and reported as a 500 with internalCode.
func respondServiceError(ctx *gin.Context, err error, internalCode int, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, services.ErrDuplicateCheckIn):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		utils.Error(ctx, http.StatusConflict, 40903, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(ctx, http.StatusUnauthorized, 40106, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	default:
		utils.Sugar.Errorw(message,
			"error", err,
			"path", ctx.FullPath(),
			"request_id", ctx.GetString(utils.ContextRequestIDKey),
		)
		_ = ctx.Error(err)
		utils.Error(ctx, http.StatusInternalServerError, internalCode, message)
	}
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(ctx *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

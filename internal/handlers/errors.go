package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the custom request validations on gin's validator.
// It is safe to call more than once.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := dto.RegisterValidators(v); err != nil {
				panic(err)
			}
		}
	})
}

// respondError renders a service error as {"kind", "error"}. Internal failures are
// logged and reported without detail.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := apperrors.StatusOf(err)
	kind := apperrors.KindOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Kind: apperrors.KindInternal, Message: "Failed to " + action})
		return
	}
	logger.Warn("Request rejected while trying to "+action,
		slog.String("kind", kind),
		slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Kind: kind, Message: err.Error()})
}

func respondBadRequest(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: apperrors.KindValidation, Message: "Invalid " + what + ": " + err.Error()})
}

// actingUser returns the user id set by the auth middleware.
func actingUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Kind: apperrors.KindUnauthorized, Message: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// familyScope extracts the request logger, acting user and family id of a
// /families/:familyID route.
func familyScope(c *gin.Context) (logger *slog.Logger, userID, familyID string, ok bool) {
	familyID = c.Param("familyID")
	logger = middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("family_id", familyID))
	userID, ok = actingUser(c, logger)
	return logger, userID, familyID, ok
}

package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/notifications"
	"podology-clinic-server/internal/repository"
	"podology-clinic-server/internal/utils"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, notifications.ErrReminderNotFound)
}

// respondError maps a store or service error onto the response envelope.
// Unexpected errors are logged and reported without details.
func respondError(c *gin.Context, log *slog.Logger, notFoundMsg string, err error) {
	if isNotFound(err) {
		utils.NotFound(c, notFoundMsg)
		return
	}
	log.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err)
	utils.InternalServerError(c, "Internal server error")
}

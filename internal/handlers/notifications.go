package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/notifications"
	"podology-clinic-server/internal/utils"
)

type reminderQueries interface {
	ListAll(ctx context.Context) ([]models.Notification, error)
	ListPending(ctx context.Context, now time.Time) ([]notifications.ReminderView, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]notifications.ReminderView, error)
	MarkSent(ctx context.Context, id string) error
}

// NotificationHandler exposes the reminder queue. Due reminders are computed
// at request time from the clock.
type NotificationHandler struct {
	service reminderQueries
	now     func() time.Time
	log     *logging.Logger
}

func NewNotificationHandler(service reminderQueries, log *logging.Logger) *NotificationHandler {
	if log == nil {
		log = logging.Default()
	}
	return &NotificationHandler{service: service, now: time.Now, log: log}
}

// GetNotifications lists every stored reminder.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	ns, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log.Logger, "Notifications not found", err)
		return
	}
	utils.Success(c, "Notifications fetched successfully", ns)
}

// GetPendingNotifications lists unsent reminders that are due now, with their
// WhatsApp links.
func (h *NotificationHandler) GetPendingNotifications(c *gin.Context) {
	views, err := h.service.ListPending(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.log.Logger, "Notifications not found", err)
		return
	}
	utils.Success(c, "Pending notifications fetched successfully", views)
}

// GetUpcomingNotifications lists unsent reminders firing soon.
func (h *NotificationHandler) GetUpcomingNotifications(c *gin.Context) {
	views, err := h.service.ListUpcoming(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.log.Logger, "Notifications not found", err)
		return
	}
	utils.Success(c, "Upcoming notifications fetched successfully", views)
}

// MarkNotificationSent records that staff sent the reminder.
func (h *NotificationHandler) MarkNotificationSent(c *gin.Context) {
	if err := h.service.MarkSent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log.Logger, "Notification not found", err)
		return
	}
	utils.Success(c, "Notification marked as sent", nil)
}

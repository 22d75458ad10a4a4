package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"podology-clinic-server/internal/models"
)

// NotificationRepository stores appointment reminders.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a single reminder.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// CreateAll inserts the reminders inside one transaction: either all of them
// are stored or none is.
func (r *NotificationRepository) CreateAll(ctx context.Context, ns []models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range ns {
			if err := tx.Create(&ns[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, limit int) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.WithContext(ctx).Order("created_at asc").Limit(limit).Find(&ns).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return ns, nil
}

// ListDue returns unsent reminders whose scheduled time is at or before now.
func (r *NotificationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.WithContext(ctx).
		Where("sent = ? AND scheduled_time <= ?", false, now).
		Order("scheduled_time asc").
		Limit(limit).
		Find(&ns).Error
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	return ns, nil
}

// ListScheduledBetween returns unsent reminders scheduled in [from, to].
func (r *NotificationRepository) ListScheduledBetween(ctx context.Context, from, to time.Time, limit int) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.WithContext(ctx).
		Where("sent = ? AND scheduled_time >= ? AND scheduled_time <= ?", false, from, to).
		Order("scheduled_time asc").
		Limit(limit).
		Find(&ns).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming notifications: %w", err)
	}
	return ns, nil
}

// MarkSent sets sent=true. Marking an already sent reminder is not an error.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string) error {
	var n models.Notification
	if err := r.db.WithContext(ctx).Select("id").First(&n, "id = ?", id).Error; err != nil {
		return fmt.Errorf("mark notification %s sent: %w", id, notFound(err))
	}

	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("sent", true).Error
	if err != nil {
		return fmt.Errorf("mark notification %s sent: %w", id, err)
	}
	return nil
}

// DeleteUnsentByAppointment removes the reminders of an appointment that have
// not been sent yet and reports how many were removed.
func (r *NotificationRepository) DeleteUnsentByAppointment(ctx context.Context, appointmentID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("appointment_id = ? AND sent = ?", appointmentID, false).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete notifications of appointment %s: %w", appointmentID, res.Error)
	}
	return res.RowsAffected, nil
}

// ListIncompleteAppointments returns the ids of active appointments that own
// exactly one reminder, i.e. whose reminder pair was only partially written.
func (r *NotificationRepository) ListIncompleteAppointments(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("appointments").
		Joins("JOIN notifications ON notifications.appointment_id = appointments.id").
		Where("appointments.status <> ?", models.StatusCancelled).
		Group("appointments.id").
		Having("COUNT(notifications.id) = ?", 1).
		Pluck("appointments.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list incomplete appointments: %w", err)
	}
	return ids, nil
}

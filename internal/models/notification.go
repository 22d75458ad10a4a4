package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType identifies which reminder offset a notification represents.
// The string values are part of the public API.
type NotificationType string

const (
	NotificationDayBefore           NotificationType = "1_day_before"
	NotificationNinetyMinutesBefore NotificationType = "1_hour_30_before"
)

// Offset returns how long before the appointment the reminder fires.
func (t NotificationType) Offset() time.Duration {
	switch t {
	case NotificationDayBefore:
		return 24 * time.Hour
	case NotificationNinetyMinutesBefore:
		return time.Hour + 30*time.Minute
	}
	return 0
}

// NotificationTypes lists the reminders created for every appointment.
var NotificationTypes = []NotificationType{
	NotificationDayBefore,
	NotificationNinetyMinutesBefore,
}

// Notification is a WhatsApp reminder tied to an appointment. Patient and
// appointment fields are copied at scheduling time and never refreshed; only
// Sent changes after creation.
type Notification struct {
	ID               string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AppointmentID    string           `gorm:"size:36;index;not null" json:"appointment_id"`
	PatientID        string           `gorm:"size:36;index" json:"patient_id"`
	PatientName      string           `gorm:"size:255" json:"patient_name"`
	PatientContact   string           `gorm:"size:40" json:"patient_contact"`
	NotificationType NotificationType `gorm:"size:20" json:"notification_type"`
	ScheduledTime    time.Time        `gorm:"index" json:"scheduled_time"`
	AppointmentDate  string           `gorm:"size:64" json:"appointment_date"`
	AppointmentTime  string           `gorm:"size:64" json:"appointment_time"`
	Message          string           `gorm:"type:text" json:"message"`
	Sent             bool             `gorm:"default:false;index" json:"sent"`
	CreatedAt        time.Time        `json:"created_at"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a visit booked for a patient. Date and Time are wall-clock
// strings in the clinic's timezone ("2006-01-02" and "15:04"), stored as sent
// even when they do not parse.
type Appointment struct {
	BaseModel
	PatientID   string            `gorm:"size:36;index;not null" json:"patient_id"`
	PatientName string            `gorm:"size:255" json:"patient_name"`
	Date        string            `gorm:"size:64;index" json:"date"`
	Time        string            `gorm:"size:64" json:"time"`
	Status      AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
}

// IsValidAppointmentStatus reports whether s is a known status.
func IsValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/metrics"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/repository"
)

// ErrInvalidAppointmentTime is returned when an appointment's date and time
// do not form a valid wall-clock datetime.
var ErrInvalidAppointmentTime = errors.New("invalid appointment date/time")

type patientFinder interface {
	GetByID(ctx context.Context, id string) (*models.Patient, error)
}

type reminderWriter interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateAll(ctx context.Context, ns []models.Notification) error
}

// Scheduler derives the reminder pair of a newly created appointment and
// stores it. Failures never propagate to the appointment request; they are
// logged and counted.
type Scheduler struct {
	patients   patientFinder
	store      reminderWriter
	loc        *time.Location
	atomicPair bool
	log        *logging.Logger
	metrics    *metrics.ReminderMetrics
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Location interprets appointment wall-clock strings. Defaults to time.Local.
	Location *time.Location
	// AtomicPair writes both reminders in one transaction.
	AtomicPair bool
}

func NewScheduler(
	patients patientFinder,
	store reminderWriter,
	opts SchedulerOptions,
	log *logging.Logger,
	m *metrics.ReminderMetrics,
) *Scheduler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logging.Default()
	}
	return &Scheduler{
		patients:   patients,
		store:      store,
		loc:        loc,
		atomicPair: opts.AtomicPair,
		log:        log,
		metrics:    m,
	}
}

// AppointmentTime parses "YYYY-MM-DD" and "HH:MM" as a datetime in loc.
func AppointmentTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidAppointmentTime, date, clock)
	}
	return t, nil
}

// BuildReminders returns one unsent reminder per notification type, with
// patient data copied from the given snapshot.
func BuildReminders(appt models.Appointment, patient models.Patient, loc *time.Location) ([]models.Notification, error) {
	at, err := AppointmentTime(appt.Date, appt.Time, loc)
	if err != nil {
		return nil, err
	}

	reminders := make([]models.Notification, 0, len(models.NotificationTypes))
	for _, t := range models.NotificationTypes {
		reminders = append(reminders, models.Notification{
			AppointmentID:    appt.ID,
			PatientID:        appt.PatientID,
			PatientName:      patient.Name,
			PatientContact:   patient.Contact,
			NotificationType: t,
			ScheduledTime:    at.Add(-t.Offset()).UTC(),
			AppointmentDate:  appt.Date,
			AppointmentTime:  appt.Time,
			Message:          RenderMessage(patient.Name, appt.Date, appt.Time, t),
			Sent:             false,
		})
	}
	return reminders, nil
}

// OnAppointmentCreated looks up the appointment's patient and schedules its
// reminders. A missing patient skips scheduling.
func (s *Scheduler) OnAppointmentCreated(ctx context.Context, appt models.Appointment) error {
	patient, err := s.patients.GetByID(ctx, appt.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("patient not found, reminders not scheduled",
				"appointment_id", appt.ID, "patient_id", appt.PatientID)
			s.metrics.ObserveSkipped(metrics.SkipPatientMissing)
			return err
		}
		s.log.Error("patient lookup failed, reminders not scheduled",
			"appointment_id", appt.ID, "patient_id", appt.PatientID, "error", err)
		s.metrics.ObserveSkipped(metrics.SkipLookupFailed)
		return err
	}

	_, err = s.Schedule(ctx, appt, *patient)
	return err
}

// Schedule builds and stores the reminder pair for appt. The returned slice
// holds the reminders that were actually stored.
func (s *Scheduler) Schedule(ctx context.Context, appt models.Appointment, patient models.Patient) ([]models.Notification, error) {
	reminders, err := BuildReminders(appt, patient, s.loc)
	if err != nil {
		s.log.Warn("unparseable appointment date/time, reminders not scheduled",
			"appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)
		s.metrics.ObserveSkipped(metrics.SkipInvalidTime)
		return nil, err
	}

	if s.atomicPair {
		if err := s.store.CreateAll(ctx, reminders); err != nil {
			s.log.Error("failed to store reminders",
				"appointment_id", appt.ID, "error", err)
			s.metrics.ObserveSkipped(metrics.SkipWriteFailed)
			return nil, err
		}
		for _, r := range reminders {
			s.metrics.ObserveScheduled(string(r.NotificationType))
		}
		s.log.Info("reminders scheduled", "appointment_id", appt.ID, "count", len(reminders))
		return reminders, nil
	}

	stored := make([]models.Notification, 0, len(reminders))
	for i := range reminders {
		if err := s.store.Create(ctx, &reminders[i]); err != nil {
			if len(stored) > 0 {
				s.log.Error("reminder pair partially written",
					"appointment_id", appt.ID,
					"failed_type", reminders[i].NotificationType,
					"stored", len(stored), "error", err)
			} else {
				s.log.Error("failed to store reminders",
					"appointment_id", appt.ID, "error", err)
			}
			s.metrics.ObserveSkipped(metrics.SkipWriteFailed)
			return stored, err
		}
		stored = append(stored, reminders[i])
		s.metrics.ObserveScheduled(string(reminders[i].NotificationType))
	}

	s.log.Info("reminders scheduled", "appointment_id", appt.ID, "count", len(stored))
	return stored, nil
}

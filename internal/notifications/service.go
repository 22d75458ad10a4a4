package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podology-clinic-server/internal/metrics"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/repository"
)

// ErrReminderNotFound is returned by MarkSent for unknown reminder ids.
var ErrReminderNotFound = errors.New("notification not found")

type reminderStore interface {
	List(ctx context.Context, limit int) ([]models.Notification, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.Notification, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time, limit int) ([]models.Notification, error)
	MarkSent(ctx context.Context, id string) error
	DeleteUnsentByAppointment(ctx context.Context, appointmentID string) (int64, error)
}

// ReminderView is the display shape of a due or upcoming reminder. The
// WhatsApp link is computed on every read and never stored.
type ReminderView struct {
	ID               string                  `json:"id"`
	PatientName      string                  `json:"patient_name"`
	PatientContact   string                  `json:"patient_contact"`
	NotificationType models.NotificationType `json:"notification_type"`
	AppointmentDate  string                  `json:"appointment_date"`
	AppointmentTime  string                  `json:"appointment_time"`
	Message          string                  `json:"message"`
	WhatsAppLink     string                  `json:"whatsapp_link"`
	ScheduledTime    time.Time               `json:"scheduled_time"`
	// TimeUntilSend is set for upcoming reminders only, in seconds.
	TimeUntilSend *float64 `json:"time_until_send,omitempty"`
}

// ServiceOptions configures the query service.
type ServiceOptions struct {
	ListLimit      int
	QueryLimit     int
	UpcomingWindow time.Duration
}

// Service answers the time-windowed reminder queries. "Due" is computed from
// stored timestamps at call time; nothing is pushed.
type Service struct {
	store   reminderStore
	links   LinkBuilder
	opts    ServiceOptions
	metrics *metrics.ReminderMetrics
}

func NewService(store reminderStore, links LinkBuilder, opts ServiceOptions, m *metrics.ReminderMetrics) *Service {
	if opts.ListLimit <= 0 {
		opts.ListLimit = 1000
	}
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = 100
	}
	if opts.UpcomingWindow <= 0 {
		opts.UpcomingWindow = 24 * time.Hour
	}
	return &Service{store: store, links: links, opts: opts, metrics: m}
}

// IsPending reports whether n is due at now and not yet sent.
func IsPending(n models.Notification, now time.Time) bool {
	return !n.Sent && !n.ScheduledTime.After(now)
}

// IsUpcoming reports whether n is unsent and scheduled within [now, now+window].
func IsUpcoming(n models.Notification, now time.Time, window time.Duration) bool {
	return !n.Sent && !n.ScheduledTime.Before(now) && !n.ScheduledTime.After(now.Add(window))
}

func (s *Service) ListAll(ctx context.Context) ([]models.Notification, error) {
	ns, err := s.store.List(ctx, s.opts.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return ns, nil
}

// ListPending returns unsent reminders whose fire time is at or before now.
func (s *Service) ListPending(ctx context.Context, now time.Time) ([]ReminderView, error) {
	ns, err := s.store.ListDue(ctx, now, s.opts.QueryLimit)
	if err != nil {
		return nil, fmt.Errorf("list pending notifications: %w", err)
	}

	views := make([]ReminderView, 0, len(ns))
	for _, n := range ns {
		if !IsPending(n, now) {
			continue
		}
		views = append(views, s.project(n))
	}
	return views, nil
}

// ListUpcoming returns unsent reminders firing within the upcoming window,
// each with the remaining time until it fires.
func (s *Service) ListUpcoming(ctx context.Context, now time.Time) ([]ReminderView, error) {
	ns, err := s.store.ListScheduledBetween(ctx, now, now.Add(s.opts.UpcomingWindow), s.opts.QueryLimit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming notifications: %w", err)
	}

	views := make([]ReminderView, 0, len(ns))
	for _, n := range ns {
		if !IsUpcoming(n, now, s.opts.UpcomingWindow) {
			continue
		}
		v := s.project(n)
		remaining := n.ScheduledTime.Sub(now).Seconds()
		v.TimeUntilSend = &remaining
		views = append(views, v)
	}
	return views, nil
}

// MarkSent flags the reminder as sent. Repeated calls succeed.
func (s *Service) MarkSent(ctx context.Context, id string) error {
	if err := s.store.MarkSent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("mark notification sent: %w", err)
	}
	s.metrics.ObserveMarkedSent()
	return nil
}

// DiscardUnsent deletes the unsent reminders of an appointment. Sent ones are kept.
func (s *Service) DiscardUnsent(ctx context.Context, appointmentID string) (int64, error) {
	n, err := s.store.DeleteUnsentByAppointment(ctx, appointmentID)
	if err != nil {
		return 0, fmt.Errorf("discard reminders: %w", err)
	}
	return n, nil
}

func (s *Service) project(n models.Notification) ReminderView {
	return ReminderView{
		ID:               n.ID,
		PatientName:      n.PatientName,
		PatientContact:   n.PatientContact,
		NotificationType: n.NotificationType,
		AppointmentDate:  n.AppointmentDate,
		AppointmentTime:  n.AppointmentTime,
		Message:          n.Message,
		WhatsAppLink:     s.links.Build(n.PatientContact, n.Message),
		ScheduledTime:    n.ScheduledTime,
	}
}

package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/repository"
)

// memStore is an in-memory stand-in for the patient and notification repositories.
type memStore struct {
	mu            sync.Mutex
	patients      map[string]models.Patient
	notifications []models.Notification
	failCreateAt  int // 1-based index of the Create call that fails; 0 disables
	createCalls   int
	lookupErr     error
}

func newMemStore() *memStore {
	return &memStore{patients: map[string]models.Patient{}}
}

func (m *memStore) addPatient(p models.Patient) models.Patient {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.patients[p.ID] = p
	return p
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Patient, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.failCreateAt == m.createCalls {
		return errors.New("insert failed")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memStore) CreateAll(_ context.Context, ns []models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateAt > 0 {
		return errors.New("transaction rolled back")
	}
	for i := range ns {
		if ns[i].ID == "" {
			ns[i].ID = uuid.NewString()
		}
	}
	m.notifications = append(m.notifications, ns...)
	return nil
}

func (m *memStore) List(_ context.Context, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]models.Notification(nil), m.notifications...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) filter(limit int, keep func(models.Notification) bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Notification
	for _, n := range m.notifications {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memStore) ListDue(_ context.Context, now time.Time, limit int) ([]models.Notification, error) {
	return m.filter(limit, func(n models.Notification) bool {
		return !n.Sent && !n.ScheduledTime.After(now)
	}), nil
}

func (m *memStore) ListScheduledBetween(_ context.Context, from, to time.Time, limit int) ([]models.Notification, error) {
	return m.filter(limit, func(n models.Notification) bool {
		return !n.Sent && !n.ScheduledTime.Before(from) && !n.ScheduledTime.After(to)
	}), nil
}

func (m *memStore) MarkSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Sent = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteUnsentByAppointment(_ context.Context, appointmentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []models.Notification
	var removed int64
	for _, n := range m.notifications {
		if n.AppointmentID == appointmentID && !n.Sent {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.notifications = kept
	return removed, nil
}

func (m *memStore) byAppointment(appointmentID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Notification
	for _, n := range m.notifications {
		if n.AppointmentID == appointmentID {
			out = append(out, n)
		}
	}
	return out
}

func (m *memStore) get(id string) (models.Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

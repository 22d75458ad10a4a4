package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/repository"
)

var errBoom = errors.New("connection reset")

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type fakePatients struct {
	mu       sync.Mutex
	patients map[string]models.Patient
	err      error
}

func newFakePatients() *fakePatients {
	return &fakePatients{patients: map[string]models.Patient{}}
}

func (f *fakePatients) add(p models.Patient) models.Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.patients[p.ID] = p
	return p
}

func (f *fakePatients) Create(_ context.Context, p *models.Patient) error {
	if f.err != nil {
		return f.err
	}
	p.ID = uuid.NewString()
	f.add(*p)
	return nil
}

func (f *fakePatients) List(_ context.Context, limit int) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

func (f *fakePatients) GetByID(_ context.Context, id string) (*models.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePatients) Update(_ context.Context, id string, p *models.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.patients[id]; !ok {
		return repository.ErrNotFound
	}
	p.ID = id
	f.patients[id] = *p
	return nil
}

func (f *fakePatients) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatients) Search(_ context.Context, q string, limit int) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Patient
	for _, p := range f.patients {
		if p.Name == q || p.Contact == q || p.CPF == q {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAnamnesis struct {
	forms map[string]models.Anamnesis
}

func newFakeAnamnesis() *fakeAnamnesis {
	return &fakeAnamnesis{forms: map[string]models.Anamnesis{}}
}

func (f *fakeAnamnesis) Create(_ context.Context, a *models.Anamnesis) error {
	a.ID = uuid.NewString()
	f.forms[a.ID] = *a
	return nil
}

func (f *fakeAnamnesis) ListByPatient(_ context.Context, patientID string, _ int) ([]models.Anamnesis, error) {
	var out []models.Anamnesis
	for _, a := range f.forms {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnamnesis) GetByID(_ context.Context, id string) (*models.Anamnesis, error) {
	a, ok := f.forms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAnamnesis) Update(_ context.Context, id string, a *models.Anamnesis) error {
	existing, ok := f.forms[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ID = id
	if a.PatientID == "" {
		a.PatientID = existing.PatientID
	}
	f.forms[id] = *a
	return nil
}

type fakeAppointments struct {
	appts    map[string]models.Appointment
	onCreate func()
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{appts: map[string]models.Appointment{}}
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	a.ID = uuid.NewString()
	f.appts[a.ID] = *a
	if f.onCreate != nil {
		f.onCreate()
	}
	return nil
}

func (f *fakeAppointments) List(_ context.Context, _ int) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0, len(f.appts))
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointments) ListByPatient(_ context.Context, patientID string, _ int) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.Status = status
	f.appts[id] = a
	return &a, nil
}

func (f *fakeAppointments) Delete(_ context.Context, id string) error {
	if _, ok := f.appts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

type fakeScheduler struct {
	calls   []models.Appointment
	ctxErrs []error
	err     error
}

func (f *fakeScheduler) OnAppointmentCreated(ctx context.Context, appt models.Appointment) error {
	f.calls = append(f.calls, appt)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

type fakeDiscarder struct {
	discarded []string
}

func (f *fakeDiscarder) DiscardUnsent(_ context.Context, appointmentID string) (int64, error) {
	f.discarded = append(f.discarded, appointmentID)
	return 1, nil
}

// memReminders is an in-memory reminder table for the scheduler and query service.
type memReminders struct {
	mu sync.Mutex
	ns []models.Notification
}

func (m *memReminders) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	m.ns = append(m.ns, *n)
	return nil
}

func (m *memReminders) CreateAll(ctx context.Context, ns []models.Notification) error {
	for i := range ns {
		if err := m.Create(ctx, &ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memReminders) List(_ context.Context, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Notification(nil), m.ns...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memReminders) ListDue(_ context.Context, now time.Time, limit int) ([]models.Notification, error) {
	return m.where(limit, func(n models.Notification) bool {
		return !n.Sent && !n.ScheduledTime.After(now)
	}), nil
}

func (m *memReminders) ListScheduledBetween(_ context.Context, from, to time.Time, limit int) ([]models.Notification, error) {
	return m.where(limit, func(n models.Notification) bool {
		return !n.Sent && !n.ScheduledTime.Before(from) && !n.ScheduledTime.After(to)
	}), nil
}

func (m *memReminders) where(limit int, keep func(models.Notification) bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.ns {
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

func (m *memReminders) MarkSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.ns {
		if m.ns[i].ID == id {
			m.ns[i].Sent = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memReminders) DeleteUnsentByAppointment(_ context.Context, appointmentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []models.Notification
	var removed int64
	for _, n := range m.ns {
		if n.AppointmentID == appointmentID && !n.Sent {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.ns = kept
	return removed, nil
}

package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/metrics"
)

type incompleteFinder interface {
	ListIncompleteAppointments(ctx context.Context) ([]string, error)
}

// Reconciler periodically reports appointments left with a single reminder
// after a partial write. It only reports; reminders are never regenerated.
type Reconciler struct {
	store   incompleteFinder
	cron    *cron.Cron
	timeout time.Duration
	log     *logging.Logger
	metrics *metrics.ReminderMetrics
}

func NewReconciler(store incompleteFinder, loc *time.Location, log *logging.Logger, m *metrics.ReminderMetrics) *Reconciler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logging.Default()
	}
	return &Reconciler{
		store:   store,
		cron:    cron.New(cron.WithLocation(loc)),
		timeout: 30 * time.Second,
		log:     log,
		metrics: m,
	}
}

// Sweep runs one reconciliation pass and returns the incomplete appointment ids.
func (r *Reconciler) Sweep(ctx context.Context) ([]string, error) {
	ids, err := r.store.ListIncompleteAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile reminders: %w", err)
	}

	r.metrics.SetIncompleteAppointments(len(ids))
	for _, id := range ids {
		r.log.Warn("appointment has an incomplete reminder pair", "appointment_id", id)
	}
	return ids, nil
}

// Start schedules Sweep with the given cron spec and starts the cron runner.
func (r *Reconciler) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.Sweep(ctx); err != nil {
			r.log.Error("reminder reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add reconciliation job %q: %w", spec, err)
	}

	r.cron.Start()
	r.log.Info("reminder reconciliation started", "schedule", spec)
	return nil
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("reminder reconciliation stopped")
}

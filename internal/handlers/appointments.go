package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/config"
	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/utils"
)

const (
	appointmentListLimit = 1000
	schedulingTimeout    = 30 * time.Second
)

type appointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	List(ctx context.Context, limit int) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type reminderScheduler interface {
	OnAppointmentCreated(ctx context.Context, appt models.Appointment) error
}

type reminderDiscarder interface {
	DiscardUnsent(ctx context.Context, appointmentID string) (int64, error)
}

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	store        appointmentStore
	scheduler    reminderScheduler
	reminders    reminderDiscarder
	orphanPolicy string
	log          *logging.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler. orphanPolicy is one
// of config.OrphanPolicyKeep or config.OrphanPolicyDelete.
func NewAppointmentHandler(
	store appointmentStore,
	scheduler reminderScheduler,
	reminders reminderDiscarder,
	orphanPolicy string,
	log *logging.Logger,
) *AppointmentHandler {
	if log == nil {
		log = logging.Default()
	}
	return &AppointmentHandler{
		store:        store,
		scheduler:    scheduler,
		reminders:    reminders,
		orphanPolicy: orphanPolicy,
		log:          log,
	}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	PatientID   string                   `json:"patient_id" binding:"required"`
	PatientName string                   `json:"patient_name"`
	Date        string                   `json:"date" binding:"required"`
	Time        string                   `json:"time" binding:"required"`
	Status      models.AppointmentStatus `json:"status" binding:"omitempty,appointment_status"`
}

// CreateAppointment stores the appointment and then schedules its reminders.
// Reminder failures are logged by the scheduler and never fail the request.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt := models.Appointment{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Date:        req.Date,
		Time:        req.Time,
		Status:      req.Status,
	}
	if appt.Status == "" {
		appt.Status = models.StatusScheduled
	}

	if err := h.store.Create(c.Request.Context(), &appt); err != nil {
		respondError(c, h.log.Logger, "Appointment not found", err)
		return
	}

	// The appointment is stored; a client disconnect must not cancel its
	// reminders. Failures are already logged and counted.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), schedulingTimeout)
	defer cancel()
	_ = h.scheduler.OnAppointmentCreated(ctx, appt)

	utils.Created(c, "Appointment created successfully", appt)
}

// GetAppointments lists appointments in date order.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appts, err := h.store.List(c.Request.Context(), appointmentListLimit)
	if err != nil {
		respondError(c, h.log.Logger, "Appointments not found", err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log.Logger, "Appointment not found", err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}

func (h *AppointmentHandler) GetAppointmentsForPatient(c *gin.Context) {
	appts, err := h.store.ListByPatient(c.Request.Context(), c.Param("patientId"), appointmentListLimit)
	if err != nil {
		respondError(c, h.log.Logger, "Appointments not found", err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// UpdateAppointmentStatusRequest represents the request body for updating appointment status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,appointment_status"`
}

// UpdateAppointmentStatus changes the status. Stored reminders are not
// rewritten; a cancellation discards unsent ones under the delete policy.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log.Logger, "Appointment not found", err)
		return
	}

	if appt.Status == models.StatusCancelled {
		h.discardReminders(c.Request.Context(), appt.ID)
	}

	utils.Success(c, "Appointment status updated successfully", appt)
}

// DeleteAppointment removes the appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log.Logger, "Appointment not found", err)
		return
	}

	h.discardReminders(c.Request.Context(), id)
	utils.Success(c, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) discardReminders(ctx context.Context, appointmentID string) {
	if h.orphanPolicy != config.OrphanPolicyDelete {
		return
	}
	n, err := h.reminders.DiscardUnsent(ctx, appointmentID)
	if err != nil {
		h.log.Error("failed to discard unsent reminders",
			"appointment_id", appointmentID, "error", err)
		return
	}
	h.log.Info("unsent reminders discarded", "appointment_id", appointmentID, "count", n)
}

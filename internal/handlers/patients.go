package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/utils"
)

const (
	patientListLimit   = 1000
	patientSearchLimit = 100
)

type patientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	List(ctx context.Context, limit int) ([]models.Patient, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Update(ctx context.Context, id string, p *models.Patient) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, limit int) ([]models.Patient, error)
}

// PatientHandler handles patient records and search.
type PatientHandler struct {
	store patientStore
	log   *logging.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(store patientStore, log *logging.Logger) *PatientHandler {
	if log == nil {
		log = logging.Default()
	}
	return &PatientHandler{store: store, log: log}
}

// PatientRequest is the body of create and update requests.
type PatientRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	CEP          string `json:"cep"`
	BirthDate    string `json:"birth_date"`
	Sex          string `json:"sex"`
	Profession   string `json:"profession"`
	Contact      string `json:"contact" binding:"required"`
	CPF          string `json:"cpf"`
}

func (r PatientRequest) toModel() models.Patient {
	return models.Patient{
		Name:         strings.TrimSpace(r.Name),
		Address:      r.Address,
		Neighborhood: r.Neighborhood,
		City:         r.City,
		State:        r.State,
		CEP:          r.CEP,
		BirthDate:    r.BirthDate,
		Sex:          r.Sex,
		Profession:   r.Profession,
		Contact:      strings.TrimSpace(r.Contact),
		CPF:          strings.TrimSpace(r.CPF),
	}
}

// CreatePatient handles creating a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := req.toModel()
	if err := h.store.Create(c.Request.Context(), &patient); err != nil {
		respondError(c, h.log.Logger, "Patient not found", err)
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients lists patients.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	patients, err := h.store.List(c.Request.Context(), patientListLimit)
	if err != nil {
		respondError(c, h.log.Logger, "Patients not found", err)
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID fetches a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log.Logger, "Patient not found", err)
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatient replaces a patient's fields.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := req.toModel()
	if err := h.store.Update(c.Request.Context(), c.Param("id"), &patient); err != nil {
		respondError(c, h.log.Logger, "Patient not found", err)
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient removes a patient.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log.Logger, "Patient not found", err)
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}

// SearchPatients matches q against name, contact and cpf.
func (h *PatientHandler) SearchPatients(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.BadRequest(c, "Query parameter 'q' is required")
		return
	}

	patients, err := h.store.Search(c.Request.Context(), q, patientSearchLimit)
	if err != nil {
		respondError(c, h.log.Logger, "Patients not found", err)
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

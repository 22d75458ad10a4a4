package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/utils"
)

const anamnesisListLimit = 100

type anamnesisStore interface {
	Create(ctx context.Context, a *models.Anamnesis) error
	ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Anamnesis, error)
	GetByID(ctx context.Context, id string) (*models.Anamnesis, error)
	Update(ctx context.Context, id string, a *models.Anamnesis) error
}

type patientLookup interface {
	GetByID(ctx context.Context, id string) (*models.Patient, error)
}

// AnamnesisHandler handles the clinical intake forms of patients.
type AnamnesisHandler struct {
	store    anamnesisStore
	patients patientLookup
	log      *logging.Logger
}

func NewAnamnesisHandler(store anamnesisStore, patients patientLookup, log *logging.Logger) *AnamnesisHandler {
	if log == nil {
		log = logging.Default()
	}
	return &AnamnesisHandler{store: store, patients: patients, log: log}
}

// AnamnesisRequest is the body of create and update requests. Update keeps
// the stored patient when patient_id is omitted.
type AnamnesisRequest struct {
	PatientID          string                    `json:"patient_id"`
	GeneralData        models.GeneralData        `json:"general_data"`
	ClinicalData       models.ClinicalData       `json:"clinical_data"`
	ResponsibilityTerm models.ResponsibilityTerm `json:"responsibility_term"`
	Observations       string                    `json:"observations"`
}

func (r AnamnesisRequest) toModel() models.Anamnesis {
	return models.Anamnesis{
		PatientID:          r.PatientID,
		GeneralData:        r.GeneralData,
		ClinicalData:       r.ClinicalData,
		ResponsibilityTerm: r.ResponsibilityTerm,
		Observations:       r.Observations,
	}
}

// CreateAnamnesis stores a form for an existing patient.
func (h *AnamnesisHandler) CreateAnamnesis(c *gin.Context) {
	var req AnamnesisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.PatientID == "" {
		utils.BadRequest(c, "Validation failed: PatientID failed required")
		return
	}

	if _, err := h.patients.GetByID(c.Request.Context(), req.PatientID); err != nil {
		respondError(c, h.log.Logger, "Patient not found", err)
		return
	}

	form := req.toModel()
	if err := h.store.Create(c.Request.Context(), &form); err != nil {
		respondError(c, h.log.Logger, "Anamnesis not found", err)
		return
	}

	utils.Created(c, "Anamnesis created successfully", form)
}

// GetAnamnesisForPatient lists a patient's forms, newest first.
func (h *AnamnesisHandler) GetAnamnesisForPatient(c *gin.Context) {
	forms, err := h.store.ListByPatient(c.Request.Context(), c.Param("patientId"), anamnesisListLimit)
	if err != nil {
		respondError(c, h.log.Logger, "Anamnesis not found", err)
		return
	}
	utils.Success(c, "Anamnesis fetched successfully", forms)
}

func (h *AnamnesisHandler) GetAnamnesisByID(c *gin.Context) {
	form, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log.Logger, "Anamnesis not found", err)
		return
	}
	utils.Success(c, "Anamnesis fetched successfully", form)
}

// UpdateAnamnesis replaces a form.
func (h *AnamnesisHandler) UpdateAnamnesis(c *gin.Context) {
	var req AnamnesisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.PatientID != "" {
		if _, err := h.patients.GetByID(c.Request.Context(), req.PatientID); err != nil {
			respondError(c, h.log.Logger, "Patient not found", err)
			return
		}
	}

	form := req.toModel()
	if err := h.store.Update(c.Request.Context(), c.Param("id"), &form); err != nil {
		respondError(c, h.log.Logger, "Anamnesis not found", err)
		return
	}

	utils.Success(c, "Anamnesis updated successfully", form)
}

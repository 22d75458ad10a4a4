package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"podology-clinic-server/internal/models"
)

type AnamnesisRepository struct {
	db *gorm.DB
}

func NewAnamnesisRepository(db *gorm.DB) *AnamnesisRepository {
	return &AnamnesisRepository{db: db}
}

func (r *AnamnesisRepository) Create(ctx context.Context, a *models.Anamnesis) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create anamnesis: %w", err)
	}
	return nil
}

func (r *AnamnesisRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Anamnesis, error) {
	var forms []models.Anamnesis
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Limit(limit).
		Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("list anamnesis for patient %s: %w", patientID, err)
	}
	return forms, nil
}

func (r *AnamnesisRepository) GetByID(ctx context.Context, id string) (*models.Anamnesis, error) {
	var a models.Anamnesis
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get anamnesis %s: %w", id, notFound(err))
	}
	return &a, nil
}

// Update replaces the form identified by id, keeping its identity and creation time.
func (r *AnamnesisRepository) Update(ctx context.Context, id string, a *models.Anamnesis) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	if a.PatientID == "" {
		a.PatientID = existing.PatientID
	}
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update anamnesis %s: %w", id, err)
	}
	return nil
}

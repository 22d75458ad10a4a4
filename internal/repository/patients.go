package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"podology-clinic-server/internal/models"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) List(ctx context.Context, limit int) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("name asc").Limit(limit).Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, notFound(err))
	}
	return &p, nil
}

// Update replaces every editable field of the patient identified by id.
func (r *PatientRepository) Update(ctx context.Context, id string, p *models.Patient) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update patient %s: %w", id, err)
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Patient{})
	if res.Error != nil {
		return fmt.Errorf("delete patient %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete patient %s: %w", id, ErrNotFound)
	}
	return nil
}

// Search matches q case-insensitively against name, contact and CPF.
func (r *PatientRepository) Search(ctx context.Context, q string, limit int) ([]models.Patient, error) {
	pattern := containsPattern(q)

	var patients []models.Patient
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(contact) LIKE ? OR LOWER(cpf) LIKE ?", pattern, pattern, pattern).
		Order("name asc").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podology-clinic-server/internal/models"
)

func TestAnamnesisRepository_ListByPatient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAnamnesisRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `anamnesis` WHERE patient_id = ? ORDER BY created_at desc")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "general_chief_complaint", "clinical_diabetes"}).
			AddRow("f-2", "p-1", "calosidade", true).
			AddRow("f-1", "p-1", "unha encravada", false))

	forms, err := repo.ListByPatient(context.Background(), "p-1", 100)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "calosidade", forms[0].GeneralData.ChiefComplaint)
	assert.True(t, forms[0].ClinicalData.Diabetes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnamnesisRepository_Update_KeepsPatient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAnamnesisRepository(db)

	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `anamnesis` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "created_at"}).AddRow("f-1", "p-1", created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `anamnesis` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	form := &models.Anamnesis{Observations: "retorno em 30 dias"}
	require.NoError(t, repo.Update(context.Background(), "f-1", form))

	assert.Equal(t, "f-1", form.ID)
	assert.Equal(t, "p-1", form.PatientID)
	assert.Equal(t, created, form.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnamnesisRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAnamnesisRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `anamnesis` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

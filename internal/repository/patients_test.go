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

func TestPatientRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `patients` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Update_KeepsIdentity(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `patients` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("p-1", "Old", created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `patients` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Patient{Name: "Maria Silva", Contact: "(11) 98765-4321"}
	require.NoError(t, repo.Update(context.Background(), "p-1", p))

	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `patients` WHERE id = ?")).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `patients` WHERE id = ?")).
		WithArgs("p-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "p-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p-2"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) LIKE ? OR LOWER(contact) LIKE ? OR LOWER(cpf) LIKE ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact"}).
			AddRow("p-1", "Maria Silva", "11987654321"))

	list, err := repo.Search(context.Background(), "MARIA", 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Maria Silva", list[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

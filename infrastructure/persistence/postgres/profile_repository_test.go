package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/entity"
)

func newMockRepo(t *testing.T) (outbound.ProfileRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProfileRepository(db), mock
}

func profileRows(p *entity.Profile) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "full_name", "password_hash", "role", "phone", "active", "created_at",
	}).AddRow(p.ID, p.Email, p.FullName, p.PasswordHash, string(p.Role), p.Phone, p.Active, p.CreatedAt)
}

func TestProfileRepository_FindByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	profile := &entity.Profile{
		ID:           "prof-1",
		Email:        "dra@clinic.example",
		FullName:     "Dr. Alba Reyes",
		PasswordHash: "hashed",
		Role:         entity.RoleClinician,
		Active:       true,
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT id, email, full_name, password_hash, role, phone, active, created_at").
		WithArgs("prof-1").
		WillReturnRows(profileRows(profile))

	got, err := repo.FindByID(context.Background(), "prof-1")

	assert.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, entity.RoleClinician, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, email, full_name, password_hash, role, phone, active, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, outbound.ErrProfileNotFound)
}

func TestProfileRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO profiles").
		WillReturnError(&pq.Error{Code: "23505"})

	profile := entity.NewProfile("prof-1", "dup@clinic.example", "hashed", entity.RoleAssistant)
	err := repo.Create(context.Background(), profile)

	assert.ErrorIs(t, err, outbound.ErrEmailTaken)
}

func TestProfileRepository_UpdateRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE profiles SET role").
		WithArgs(string(entity.RoleClinician), "prof-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRole(context.Background(), "prof-2", entity.RoleClinician)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateRole_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE profiles SET role").
		WithArgs(string(entity.RoleClinician), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRole(context.Background(), "missing", entity.RoleClinician)

	assert.ErrorIs(t, err, outbound.ErrProfileNotFound)
}

func TestProfileRepository_ExistsByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("taken@clinic.example").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "taken@clinic.example")

	assert.NoError(t, err)
	assert.True(t, exists)
}

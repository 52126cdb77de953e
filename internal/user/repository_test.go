// repository_test.go

package user

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InnoTechI/skillx-api/internal/auth"
	"github.com/InnoTechI/skillx-api/internal/core"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone",
	"role", "is_email_verified", "is_active", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func sampleUserRow(id, email string) []driverValue {
	now := time.Now().UTC()
	return []driverValue{
		id, email, "$argon2id$hash", "Jane", "Doe", nil,
		"client", false, true, now, now,
	}
}

type driverValue = driver.Value

func TestRepositoryCreate(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			"id-1", "a@test.com", "hash", "Jane", "Doe", nil,
			auth.RoleClient, false,
		).
		WillReturnRows(
			sqlmock.NewRows([]string{"is_active", "created_at", "updated_at"}).
				AddRow(true, now, now),
		)

	user := &User{
		ID:           "id-1",
		Email:        "a@test.com",
		PasswordHash: "hash",
		FirstName:    "Jane",
		LastName:     "Doe",
		Role:         auth.RoleClient,
	}

	require.NoError(t, repo.Create(context.Background(), user))
	assert.True(t, user.IsActive)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_UniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	err := repo.Create(context.Background(), &User{
		ID:    "id-1",
		Email: "dup@test.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByEmail_LowercasesInQuery(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users WHERE lower").
		WithArgs("Mixed@Test.com").
		WillReturnRows(
			sqlmock.NewRows(userColumns).
				AddRow(sampleUserRow("id-1", "mixed@test.com")...),
		)

	user, err := repo.GetByEmail(context.Background(), "Mixed@Test.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", user.ID)
	assert.Equal(t, "mixed@test.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryExistsByEmail(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "a@test.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCountAdmins(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetActive_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "missing", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryList_FiltersAndPagination(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%jane%", "client").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("FROM users").
		WithArgs("%jane%", "client", 20, 0).
		WillReturnRows(
			sqlmock.NewRows(userColumns).
				AddRow(sampleUserRow("id-1", "jane@test.com")...),
		)

	users, total, err := repo.List(context.Background(), ListUsersParams{
		Search: "jane",
		Role:   "client",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "jane@test.com", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

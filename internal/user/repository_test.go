package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "email", "username", "password", "name"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT u.id, u.email, u.username, u.password, r.name FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "a@b.c", "ana", "hash", "CHEF"))

		u, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, RoleChef, u.Role)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users u`).
			WithArgs(uint(2)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), 2)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users u`).
			WillReturnError(errors.New("timeout"))

		_, err := repo.FindByID(context.Background(), 3)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

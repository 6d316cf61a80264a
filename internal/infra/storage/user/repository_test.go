package user_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
)

func setup(t *testing.T) (*user.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return user.NewRepository(dbmetrics.Wrap(db, nil)), dbMock
}

func TestRepository(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("upsert", func(t *testing.T) {
		repo, dbMock := setup(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (chat_id,name,phone,is_admin) VALUES ($1,$2,$3,$4) ON CONFLICT (chat_id) DO UPDATE SET`)).
			WithArgs(int64(1001), "Анна", "+79990000000", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

		got, err := repo.Upsert(t.Context(), &domain.User{ChatID: 1001, Name: "Анна", Phone: "+79990000000"})

		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get by chat id", func(t *testing.T) {
		repo, dbMock := setup(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, chat_id, name, phone, is_admin, created_at, updated_at FROM users WHERE chat_id = $1`)).
			WithArgs(int64(1001)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "chat_id", "name", "phone", "is_admin", "created_at", "updated_at"}).
				AddRow(int64(5), int64(1001), "Анна", "+79990000000", true, now, now))

		got, err := repo.GetByChatID(t.Context(), 1001)

		require.NoError(t, err)
		assert.True(t, got.IsAdmin)
		assert.Equal(t, "Анна", got.Name)
	})

	t.Run("get by chat id not found", func(t *testing.T) {
		repo, dbMock := setup(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE chat_id = $1`)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByChatID(t.Context(), 1)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("delete non admins", func(t *testing.T) {
		repo, dbMock := setup(t)

		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE is_admin = $1`)).
			WithArgs(false).
			WillReturnResult(sqlmock.NewResult(0, 4))

		deleted, err := repo.DeleteNonAdmins(t.Context())

		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

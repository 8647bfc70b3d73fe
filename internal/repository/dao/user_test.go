package dao

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func userColumns() []string {
	return []string{
		"id", "email", "password", "name", "phone", "college",
		"role", "is_paid", "ojass_id", "referred_by", "created_at", "updated_at",
	}
}

func TestUserDAO_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		dao := NewUserDAO(gdb)

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
			WithArgs(7, 1).
			WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
				7, "asha@example.com", "hash", "Asha", "", "NIT Jamshedpur",
				"user", true, "OJ100AAAAA", "", now, now,
			))

		user, err := dao.FindByID(context.Background(), 7)
		require.NoError(t, err)

		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, "OJ100AAAAA", user.OjassID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		dao := NewUserDAO(gdb)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
			WithArgs(404, 1).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		_, err := dao.FindByID(context.Background(), 404)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserDAO_FindByReferredBy(t *testing.T) {
	gdb, mock := newMockDB(t)
	dao := NewUserDAO(gdb)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE referred_by = \$1 ORDER BY created_at DESC`).
		WithArgs("OJ100AAAAA").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(3, "charu@example.com", "hash", "Charu", "", "",
				"user", false, "OJ300CCCCC", "OJ100AAAAA", now, now).
			AddRow(2, "bala@example.com", "hash", "Bala", "", "",
				"user", true, "OJ200BBBBB", "OJ100AAAAA", now, now))

	users, err := dao.FindByReferredBy(context.Background(), "OJ100AAAAA")
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, uint(3), users[0].ID)
	assert.Equal(t, uint(2), users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_MarkPaid(t *testing.T) {
	t.Run("flips unpaid to paid", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		dao := NewUserDAO(gdb)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		changed, err := dao.MarkPaid(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-op on an already paid user", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		dao := NewUserDAO(gdb)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		changed, err := dao.MarkPaid(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

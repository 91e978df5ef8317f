package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockStore wires gorm's postgres dialect over a sqlmock connection, for
// asserting what hits the wire without a database.
func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

func TestListPackages_Query(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "car_type", "price_per_month"}).
		AddRow(1, "Basic", "hatchback", 500.0).
		AddRow(2, "Classic", "sedan", 800.0)
	mock.ExpectQuery(`SELECT \* FROM "packages" ORDER BY price_per_month`).WillReturnRows(rows)

	pkgs, err := s.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Basic", pkgs[0].Name)
	assert.Equal(t, 800.0, pkgs[1].PricePerMonth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPackages_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "packages"`).WillReturnError(errors.New("connection reset"))

	_, err := s.ListPackages(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list packages")
	assert.Contains(t, err.Error(), "connection reset")
}

package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens gorm over a mocked SQL connection with the same dialect
// options the real database uses.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func newMockContractRepository(t *testing.T) (*GormContractRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormContractRepository(gormDB), mock, mockDB
}

func contractColumns() []string {
	return []string{"id", "created_at", "updated_at", "version", "tenant_id", "author_id", "title_id", "status", "advance_amount", "advance_recouped"}
}

func TestGormContractRepository_FindActiveByAuthor(t *testing.T) {
	t.Run("finds the active contract", func(t *testing.T) {
		repo, mock, mockDB := newMockContractRepository(t)
		defer mockDB.Close()

		tenantID, authorID, contractID, titleID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(contractColumns()).
			AddRow(contractID, now, now, 1, tenantID, authorID, titleID, "ACTIVE", decimal.NewFromInt(1000), decimal.NewFromInt(250))

		mock.ExpectQuery(`SELECT \* FROM "contracts" WHERE tenant_id = \$1 AND author_id = \$2 AND status = \$3 ORDER BY created_at ASC.* LIMIT .*`).
			WithArgs(tenantID, authorID, "ACTIVE", 1).
			WillReturnRows(rows)

		contract, err := repo.FindActiveByAuthor(context.Background(), tenantID, authorID)
		require.NoError(t, err)
		assert.Equal(t, contractID, contract.GetID())
		assert.Equal(t, authorID, contract.AuthorID)
		assert.True(t, contract.IsActive())
		assert.True(t, contract.RemainingAdvance().Equal(decimal.NewFromInt(750)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing contract to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockContractRepository(t)
		defer mockDB.Close()

		tenantID, authorID := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "contracts" WHERE tenant_id = \$1 AND author_id = \$2 AND status = \$3 ORDER BY created_at ASC.* LIMIT .*`).
			WithArgs(tenantID, authorID, "ACTIVE", 1).
			WillReturnRows(sqlmock.NewRows(contractColumns()))

		_, err := repo.FindActiveByAuthor(context.Background(), tenantID, authorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormContractRepository_FindActiveAuthorIDs(t *testing.T) {
	repo, mock, mockDB := newMockContractRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	a, b := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"author_id"}).AddRow(a).AddRow(b)

	mock.ExpectQuery(`SELECT DISTINCT "author_id" FROM "contracts" WHERE tenant_id = \$1 AND status = \$2 ORDER BY author_id ASC`).
		WithArgs(tenantID, "ACTIVE").
		WillReturnRows(rows)

	authorIDs, err := repo.FindActiveAuthorIDs(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, authorIDs)
}

func TestGormContractRepository_UpdateAdvance(t *testing.T) {
	t.Run("persists the advance and bumps the version", func(t *testing.T) {
		repo, mock, mockDB := newMockContractRepository(t)
		defer mockDB.Close()

		contract, err := royalty.NewContract(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1000))
		require.NoError(t, err)
		require.NoError(t, contract.ApplyRecoupment(decimal.NewFromInt(125)))

		mock.ExpectExec(`UPDATE "contracts" SET .+ WHERE tenant_id = \$\d+ AND id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateAdvance(context.Background(), contract))
		assert.Equal(t, 2, contract.Version)
	})

	t.Run("stale version surfaces a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockContractRepository(t)
		defer mockDB.Close()

		contract, err := royalty.NewContract(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1000))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "contracts" SET .+ WHERE tenant_id = \$\d+ AND id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateAdvance(context.Background(), contract)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, contract.Version)
	})
}

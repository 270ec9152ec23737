package royalty

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftStatement(t *testing.T) *Statement {
	t.Helper()
	tenantID := uuid.New()
	contract := testContract(t, "1000", "0")
	period, err := valueobject.NewPeriod(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	calc, err := NewCalculator().BuildStatement(contract, period, valueobject.USD,
		[]FormatBreakdown{{Format: FormatEbook, FormatRoyalty: decimal.NewFromInt(125)}})
	require.NoError(t, err)
	return NewStatement(tenantID, contract, calc)
}

func TestNewStatement(t *testing.T) {
	stmt := draftStatement(t)

	assert.Equal(t, StatementStatusDraft, stmt.Status)
	assert.True(t, stmt.TotalRoyaltyEarned.Equal(decimal.NewFromInt(125)))
	assert.True(t, stmt.Recoupment.Equal(decimal.NewFromInt(125)))
	assert.True(t, stmt.NetPayable.IsZero())
	assert.False(t, stmt.HasArtifact())
	assert.False(t, stmt.EmailSent())
}

func TestStatementAttachArtifact(t *testing.T) {
	t.Run("attaches key once", func(t *testing.T) {
		stmt := draftStatement(t)
		key := ArtifactKeyFor(stmt.TenantID, stmt.GetID())

		require.NoError(t, stmt.AttachArtifact(key))
		assert.True(t, stmt.HasArtifact())
		assert.Equal(t, key, *stmt.ArtifactKey)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		stmt := draftStatement(t)
		assert.Error(t, stmt.AttachArtifact(""))
	})

	t.Run("rejects second attachment", func(t *testing.T) {
		stmt := draftStatement(t)
		require.NoError(t, stmt.AttachArtifact("statements/a.pdf"))

		err := stmt.AttachArtifact("statements/b.pdf")
		require.Error(t, err)
		assert.Equal(t, "statements/a.pdf", *stmt.ArtifactKey)
	})
}

func TestStatementFinalize(t *testing.T) {
	t.Run("finalizes a draft with an artifact", func(t *testing.T) {
		stmt := draftStatement(t)
		require.NoError(t, stmt.AttachArtifact("statements/a.pdf"))

		require.NoError(t, stmt.Finalize())
		assert.Equal(t, StatementStatusFinalized, stmt.Status)
	})

	t.Run("requires an artifact", func(t *testing.T) {
		stmt := draftStatement(t)
		assert.Error(t, stmt.Finalize())
	})

	t.Run("rejects double finalization", func(t *testing.T) {
		stmt := draftStatement(t)
		require.NoError(t, stmt.AttachArtifact("statements/a.pdf"))
		require.NoError(t, stmt.Finalize())

		assert.Error(t, stmt.Finalize())
	})
}

func TestStatementMarkEmailSent(t *testing.T) {
	t.Run("records timestamp once", func(t *testing.T) {
		stmt := draftStatement(t)
		at := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

		require.NoError(t, stmt.MarkEmailSent(at))
		assert.True(t, stmt.EmailSent())
		assert.Equal(t, at, *stmt.EmailSentAt)
	})

	t.Run("keeps the original timestamp on resend", func(t *testing.T) {
		stmt := draftStatement(t)
		first := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
		require.NoError(t, stmt.MarkEmailSent(first))

		err := stmt.MarkEmailSent(first.Add(48 * time.Hour))
		require.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, first, *stmt.EmailSentAt)
	})
}

func TestStatementArtifactNaming(t *testing.T) {
	stmt := draftStatement(t)

	assert.Equal(t, "royalty-statement-2026-01.pdf", stmt.ArtifactFilename())

	key := ArtifactKeyFor(stmt.TenantID, stmt.GetID())
	assert.Equal(t, "statements/"+stmt.TenantID.String()+"/"+stmt.GetID().String()+".pdf", key)
}

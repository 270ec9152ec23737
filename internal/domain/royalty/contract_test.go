package royalty

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContract(t *testing.T) {
	t.Run("creates active contract", func(t *testing.T) {
		tenantID, authorID, titleID := uuid.New(), uuid.New(), uuid.New()

		contract, err := NewContract(tenantID, authorID, titleID, decimal.NewFromInt(5000))
		require.NoError(t, err)

		assert.Equal(t, tenantID, contract.TenantID)
		assert.Equal(t, authorID, contract.AuthorID)
		assert.Equal(t, titleID, contract.TitleID)
		assert.True(t, contract.IsActive())
		assert.True(t, contract.AdvanceRecouped.IsZero())
		assert.True(t, contract.RemainingAdvance().Equal(decimal.NewFromInt(5000)))
	})

	t.Run("rejects negative advance", func(t *testing.T) {
		_, err := NewContract(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestContractApplyRecoupment(t *testing.T) {
	t.Run("accumulates recoupment", func(t *testing.T) {
		contract := testContract(t, "1000", "0")

		require.NoError(t, contract.ApplyRecoupment(decimal.NewFromInt(300)))
		require.NoError(t, contract.ApplyRecoupment(decimal.NewFromInt(700)))

		assert.True(t, contract.AdvanceRecouped.Equal(decimal.NewFromInt(1000)))
		assert.True(t, contract.RemainingAdvance().IsZero())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		contract := testContract(t, "1000", "0")
		assert.Error(t, contract.ApplyRecoupment(decimal.NewFromInt(-5)))
	})

	t.Run("rejects recoupment past the advance", func(t *testing.T) {
		contract := testContract(t, "1000", "800")

		err := contract.ApplyRecoupment(decimal.NewFromInt(300))
		require.Error(t, err)
		// state is unchanged on rejection
		assert.True(t, contract.AdvanceRecouped.Equal(decimal.NewFromInt(800)))
	})

	t.Run("accepts zero amount", func(t *testing.T) {
		contract := testContract(t, "1000", "1000")
		assert.NoError(t, contract.ApplyRecoupment(decimal.Zero))
	})
}

func TestContractStatus(t *testing.T) {
	assert.True(t, ContractStatusActive.IsValid())
	assert.True(t, ContractStatusInactive.IsValid())
	assert.False(t, ContractStatus("SUSPENDED").IsValid())

	contract := testContract(t, "0", "0")
	contract.Status = ContractStatusInactive
	assert.False(t, contract.IsActive())
}

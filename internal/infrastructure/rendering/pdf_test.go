package rendering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedInputs(t *testing.T) (*royalty.Statement, *royalty.Author) {
	t.Helper()
	tenantID := uuid.New()
	contract, err := royalty.NewContract(tenantID, uuid.New(), uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	period, err := valueobject.NewPeriod(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	max := int64(50)
	calc := royalty.StatementCalculation{
		Period:       period,
		Currency:     valueobject.USD,
		GrossRoyalty: decimal.RequireFromString("125.00"),
		AdvanceRecoupment: royalty.AdvanceRecoupment{
			OriginalAdvance:      decimal.NewFromInt(1000),
			PreviouslyRecouped:   decimal.NewFromInt(500),
			ThisPeriodRecoupment: decimal.NewFromInt(125),
			RemainingAdvance:     decimal.NewFromInt(375),
		},
		NetPayable: decimal.Zero,
		FormatBreakdowns: []royalty.FormatBreakdown{{
			Format:        royalty.FormatEbook,
			GrossQuantity: 100,
			GrossRevenue:  decimal.NewFromInt(1000),
			NetQuantity:   100,
			NetRevenue:    decimal.NewFromInt(1000),
			FormatRoyalty: decimal.RequireFromString("125.00"),
			TierBreakdowns: []royalty.TierBreakdown{
				{TierMinQuantity: 0, TierMaxQuantity: &max, TierRate: decimal.NewFromFloat(0.10), QuantityInTier: 50, RevenueInTier: decimal.NewFromInt(500), RoyaltyEarned: decimal.NewFromInt(50)},
				{TierMinQuantity: 50, TierMaxQuantity: nil, TierRate: decimal.NewFromFloat(0.15), QuantityInTier: 50, RevenueInTier: decimal.NewFromInt(500), RoyaltyEarned: decimal.NewFromInt(75)},
			},
		}},
	}

	statement := royalty.NewStatement(tenantID, contract, calc)
	author := &royalty.Author{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                "Ada Leverson",
		Email:               "ada@example.test",
	}
	return statement, author
}

func TestPDFStatementRenderer(t *testing.T) {
	renderer := NewPDFStatementRenderer()
	statement, author := renderedInputs(t)

	document, err := renderer.Render(statement, author)
	require.NoError(t, err)

	require.NotEmpty(t, document)
	assert.Equal(t, "%PDF", string(document[:4]))
	// a statement with two tiers and a summary block is well past a header page
	assert.Greater(t, len(document), 1000)
}

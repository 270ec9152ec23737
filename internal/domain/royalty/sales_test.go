package royalty

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeriod(t *testing.T) valueobject.Period {
	t.Helper()
	p, err := valueobject.NewPeriod(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return p
}

func TestSaleRecordRevenue(t *testing.T) {
	sale := SaleRecord{Quantity: 3, UnitPrice: decimal.NewFromFloat(9.99)}
	assert.True(t, sale.Revenue().Equal(decimal.NewFromFloat(29.97)))
}

func TestAggregateNetSales(t *testing.T) {
	titleID := uuid.New()
	period := testPeriod(t)
	inPeriod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates sales and returns", func(t *testing.T) {
		sales := []SaleRecord{
			{TitleID: titleID, Format: FormatEbook, Quantity: 60, UnitPrice: decimal.NewFromInt(10), OccurredAt: inPeriod},
			{TitleID: titleID, Format: FormatEbook, Quantity: 40, UnitPrice: decimal.NewFromInt(10), OccurredAt: inPeriod},
		}
		returns := []ReturnRecord{
			{TitleID: titleID, Format: FormatEbook, Quantity: 10, Amount: decimal.NewFromInt(100), OccurredAt: inPeriod},
		}

		net := AggregateNetSales(FormatEbook, period, sales, returns)

		assert.Equal(t, int64(100), net.GrossQuantity)
		assert.True(t, net.GrossRevenue.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, int64(10), net.ReturnsQuantity)
		assert.Equal(t, int64(90), net.NetQuantity())
		assert.True(t, net.NetRevenue().Equal(decimal.NewFromInt(900)))
	})

	t.Run("ignores records of other formats", func(t *testing.T) {
		sales := []SaleRecord{
			{TitleID: titleID, Format: FormatHardcover, Quantity: 5, UnitPrice: decimal.NewFromInt(20), OccurredAt: inPeriod},
		}

		net := AggregateNetSales(FormatEbook, period, sales, nil)

		assert.Equal(t, int64(0), net.GrossQuantity)
		assert.True(t, net.GrossRevenue.IsZero())
	})

	t.Run("excludes records at the period end boundary", func(t *testing.T) {
		sales := []SaleRecord{
			{TitleID: titleID, Format: FormatEbook, Quantity: 1, UnitPrice: decimal.NewFromInt(10), OccurredAt: period.Start},
			{TitleID: titleID, Format: FormatEbook, Quantity: 1, UnitPrice: decimal.NewFromInt(10), OccurredAt: period.End},
		}

		net := AggregateNetSales(FormatEbook, period, sales, nil)

		// Half-open interval: the sale at Start counts, the one at End does not.
		assert.Equal(t, int64(1), net.GrossQuantity)
	})

	t.Run("zero activity yields all-zero figures", func(t *testing.T) {
		net := AggregateNetSales(FormatEbook, period, nil, nil)

		assert.Equal(t, int64(0), net.NetQuantity())
		assert.True(t, net.NetRevenue().IsZero())
	})

	t.Run("returns may exceed sales at aggregation time", func(t *testing.T) {
		returns := []ReturnRecord{
			{TitleID: titleID, Format: FormatEbook, Quantity: 7, Amount: decimal.NewFromInt(70), OccurredAt: inPeriod},
		}

		net := AggregateNetSales(FormatEbook, period, nil, returns)

		// The aggregator reports the raw figures; the calculator rejects the
		// negative net quantity.
		assert.Equal(t, int64(-7), net.NetQuantity())
	})
}

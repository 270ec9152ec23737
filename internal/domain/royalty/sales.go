package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleRecord is one unit-sale event for a title+format. Records are immutable
// once created and owned by the upstream sales ingestion; the royalty engine
// only reads them.
type SaleRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	TitleID    uuid.UUID
	Format     Format
	Quantity   int64
	UnitPrice  decimal.Decimal
	OccurredAt time.Time
}

// Revenue returns the gross revenue of the sale
func (s SaleRecord) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(s.Quantity))
}

// ReturnRecord is one unit-return event. Amount is the total refunded for the
// returned quantity. SaleID optionally references the original sale.
type ReturnRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	TitleID    uuid.UUID
	SaleID     *uuid.UUID
	Format     Format
	Quantity   int64
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// NetSales holds the gross and returns figures for one format over one
// period, from which net quantity and net revenue derive.
type NetSales struct {
	Format          Format
	GrossQuantity   int64
	GrossRevenue    decimal.Decimal
	ReturnsQuantity int64
	ReturnsAmount   decimal.Decimal
}

// NetQuantity returns gross quantity minus returned quantity.
// A negative result means returns exceed recorded sales; the calculator
// surfaces that as a CalculationError rather than clamping it.
func (n NetSales) NetQuantity() int64 {
	return n.GrossQuantity - n.ReturnsQuantity
}

// NetRevenue returns gross revenue minus refunded amount
func (n NetSales) NetRevenue() decimal.Decimal {
	return n.GrossRevenue.Sub(n.ReturnsAmount)
}

// AggregateNetSales aggregates the sale and return records of one format that
// fall within the half-open period [start, end). It is a pure read: zero
// sales and zero returns yield all-zero figures, not an error.
func AggregateNetSales(format Format, period valueobject.Period, sales []SaleRecord, returns []ReturnRecord) NetSales {
	net := NetSales{
		Format:        format,
		GrossRevenue:  decimal.Zero,
		ReturnsAmount: decimal.Zero,
	}
	for _, s := range sales {
		if s.Format != format || !period.Contains(s.OccurredAt) {
			continue
		}
		net.GrossQuantity += s.Quantity
		net.GrossRevenue = net.GrossRevenue.Add(s.Revenue())
	}
	for _, r := range returns {
		if r.Format != format || !period.Contains(r.OccurredAt) {
			continue
		}
		net.ReturnsQuantity += r.Quantity
		net.ReturnsAmount = net.ReturnsAmount.Add(r.Amount)
	}
	return net
}

package royalty

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TierBreakdown is the portion of a format's net sales that fell into one
// rate tier. Derived, never persisted standalone.
type TierBreakdown struct {
	TierMinQuantity int64           `json:"tier_min_quantity"`
	TierMaxQuantity *int64          `json:"tier_max_quantity"`
	TierRate        decimal.Decimal `json:"tier_rate"`
	QuantityInTier  int64           `json:"quantity_in_tier"`
	RevenueInTier   decimal.Decimal `json:"revenue_in_tier"`
	RoyaltyEarned   decimal.Decimal `json:"royalty_earned"`
}

// FormatBreakdown is the per-format royalty result: net figures plus the
// ordered tier breakdowns they were allocated across.
type FormatBreakdown struct {
	Format          Format          `json:"format"`
	GrossQuantity   int64           `json:"gross_quantity"`
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	ReturnsQuantity int64           `json:"returns_quantity"`
	ReturnsAmount   decimal.Decimal `json:"returns_amount"`
	NetQuantity     int64           `json:"net_quantity"`
	NetRevenue      decimal.Decimal `json:"net_revenue"`
	TierBreakdowns  []TierBreakdown `json:"tier_breakdowns"`
	FormatRoyalty   decimal.Decimal `json:"format_royalty"`
}

// AdvanceRecoupment is the statement-level advance accounting.
// ThisPeriodRecoupment + RemainingAdvance always equals the remaining advance
// before this statement, exactly.
type AdvanceRecoupment struct {
	OriginalAdvance      decimal.Decimal `json:"original_advance"`
	PreviouslyRecouped   decimal.Decimal `json:"previously_recouped"`
	ThisPeriodRecoupment decimal.Decimal `json:"this_period_recoupment"`
	RemainingAdvance     decimal.Decimal `json:"remaining_advance"`
}

// StatementCalculation is the full structured calculation result, persisted
// on the Statement as a JSONB document.
type StatementCalculation struct {
	Period            valueobject.Period   `json:"period"`
	Currency          valueobject.Currency `json:"currency"`
	FormatBreakdowns  []FormatBreakdown    `json:"format_breakdowns"`
	GrossRoyalty      decimal.Decimal      `json:"gross_royalty"`
	AdvanceRecoupment AdvanceRecoupment    `json:"advance_recoupment"`
	NetPayable        decimal.Decimal      `json:"net_payable"`
}

// Value implements driver.Valuer so the calculation persists as JSONB
func (sc StatementCalculation) Value() (driver.Value, error) {
	return json.Marshal(sc)
}

// Scan implements sql.Scanner for JSONB retrieval
func (sc *StatementCalculation) Scan(value interface{}) error {
	if value == nil {
		*sc = StatementCalculation{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StatementCalculation: unsupported type")
	}
	if len(bytes) == 0 {
		*sc = StatementCalculation{}
		return nil
	}
	return json.Unmarshal(bytes, sc)
}

// Calculator applies resolved rate schedules to net sales figures and rolls
// the per-format results up into a statement-level calculation. It is a
// stateless domain service; results are a pure function of its inputs.
type Calculator struct{}

// NewCalculator creates a new Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// BuildFormatBreakdown walks the schedule's tiers in ascending order and
// allocates the format's net quantity across them. Revenue is pro-rated by
// volume at the average unit price (netRevenue / netQuantity) rather than
// re-derived from per-sale pricing; per-transaction tier attribution would be
// a breaking change to this contract, not a bug fix.
func (c *Calculator) BuildFormatBreakdown(contract *Contract, net NetSales, schedule RateSchedule) (FormatBreakdown, error) {
	netQty := net.NetQuantity()
	if netQty < 0 {
		return FormatBreakdown{}, &CalculationError{
			AuthorID: contract.AuthorID,
			Reason: fmt.Sprintf("net quantity for format %s is negative (%d sold, %d returned)",
				net.Format, net.GrossQuantity, net.ReturnsQuantity),
		}
	}

	netRevenue := net.NetRevenue()
	averageUnitPrice := decimal.Zero
	if netQty > 0 {
		averageUnitPrice = netRevenue.Div(decimal.NewFromInt(netQty))
	}

	breakdowns := make([]TierBreakdown, 0, len(schedule.Tiers))
	formatRoyalty := decimal.Zero
	remaining := netQty
	for _, tier := range schedule.Tiers {
		upper := netQty
		if tier.MaxQuantity != nil && *tier.MaxQuantity < upper {
			upper = *tier.MaxQuantity
		}
		qty := upper - tier.MinQuantity
		if qty < 0 {
			qty = 0
		}
		if qty > remaining {
			qty = remaining
		}
		remaining -= qty

		revenueInTier := averageUnitPrice.Mul(decimal.NewFromInt(qty))
		royaltyEarned := revenueInTier.Mul(tier.Rate).Round(valueobject.MinorUnitPlaces)

		breakdowns = append(breakdowns, TierBreakdown{
			TierMinQuantity: tier.MinQuantity,
			TierMaxQuantity: tier.MaxQuantity,
			TierRate:        tier.Rate,
			QuantityInTier:  qty,
			RevenueInTier:   revenueInTier,
			RoyaltyEarned:   royaltyEarned,
		})
		formatRoyalty = formatRoyalty.Add(royaltyEarned)
	}

	return FormatBreakdown{
		Format:          net.Format,
		GrossQuantity:   net.GrossQuantity,
		GrossRevenue:    net.GrossRevenue,
		ReturnsQuantity: net.ReturnsQuantity,
		ReturnsAmount:   net.ReturnsAmount,
		NetQuantity:     netQty,
		NetRevenue:      netRevenue,
		TierBreakdowns:  breakdowns,
		FormatRoyalty:   formatRoyalty,
	}, nil
}

// BuildStatement sums the format royalties to the gross royalty, applies
// advance recoupment against the contract's current advance state and
// produces the net payable. NetPayable and RemainingAdvance are non-negative
// by construction, never clamped after the fact.
func (c *Calculator) BuildStatement(contract *Contract, period valueobject.Period, currency valueobject.Currency, breakdowns []FormatBreakdown) (StatementCalculation, error) {
	grossRoyalty := decimal.Zero
	for _, fb := range breakdowns {
		grossRoyalty = grossRoyalty.Add(fb.FormatRoyalty)
	}

	remainingBefore := contract.RemainingAdvance()
	if remainingBefore.IsNegative() {
		return StatementCalculation{}, &CalculationError{
			AuthorID: contract.AuthorID,
			Reason: fmt.Sprintf("contract advance state is corrupt: recouped %s exceeds advance %s",
				contract.AdvanceRecouped.String(), contract.AdvanceAmount.String()),
		}
	}

	thisPeriod := decimal.Min(grossRoyalty, remainingBefore)
	remainingAfter := remainingBefore.Sub(thisPeriod)
	netPayable := grossRoyalty.Sub(thisPeriod).Round(valueobject.MinorUnitPlaces)

	return StatementCalculation{
		Period:           period,
		Currency:         currency,
		FormatBreakdowns: breakdowns,
		GrossRoyalty:     grossRoyalty,
		AdvanceRecoupment: AdvanceRecoupment{
			OriginalAdvance:      contract.AdvanceAmount,
			PreviouslyRecouped:   contract.AdvanceRecouped,
			ThisPeriodRecoupment: thisPeriod,
			RemainingAdvance:     remainingAfter,
		},
		NetPayable: netPayable,
	}, nil
}

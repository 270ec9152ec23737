package royalty

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateTier is one quantity band of a contract's rate schedule for a format.
// MaxQuantity == nil means the band is unbounded above. Rate is a fraction of
// revenue (0.10 = 10%).
type RateTier struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Format      Format
	MinQuantity int64
	MaxQuantity *int64
	Rate        decimal.Decimal
}

// IsUnbounded reports whether the tier has no upper quantity bound
func (t RateTier) IsUnbounded() bool {
	return t.MaxQuantity == nil
}

// RateSchedule is the resolved, validated, ordered tier list for one
// contract+format. Tiers are contiguous, non-overlapping, start at quantity
// zero and end with exactly one unbounded tier, so they partition every
// possible net quantity.
type RateSchedule struct {
	ContractID uuid.UUID
	Format     Format
	Tiers      []RateTier
}

// ResolveSchedule orders and validates the rate tiers configured for a
// contract+format. Any structural violation is a ScheduleError: a
// data-integrity fault fatal for the affected author, not for the batch.
func ResolveSchedule(contractID uuid.UUID, format Format, tiers []RateTier) (RateSchedule, error) {
	scoped := make([]RateTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Format == format {
			scoped = append(scoped, t)
		}
	}
	if len(scoped) == 0 {
		return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format, Reason: "no rate tiers defined"}
	}

	sort.Slice(scoped, func(i, j int) bool {
		return scoped[i].MinQuantity < scoped[j].MinQuantity
	})

	for i, t := range scoped {
		if t.MinQuantity < 0 {
			return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
				Reason: fmt.Sprintf("tier %d has negative minimum quantity %d", i, t.MinQuantity)}
		}
		if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
				Reason: fmt.Sprintf("tier %d rate %s is not a fraction in [0, 1]", i, t.Rate.String())}
		}
		if t.MaxQuantity != nil && *t.MaxQuantity <= t.MinQuantity {
			return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
				Reason: fmt.Sprintf("tier %d ceiling %d does not exceed floor %d", i, *t.MaxQuantity, t.MinQuantity)}
		}

		last := i == len(scoped)-1
		if last {
			if t.MaxQuantity != nil {
				return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
					Reason: "final tier must be unbounded"}
			}
			continue
		}
		if t.MaxQuantity == nil {
			return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
				Reason: fmt.Sprintf("tier %d is unbounded but is not the final tier", i)}
		}
		if next := scoped[i+1]; *t.MaxQuantity != next.MinQuantity {
			return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
				Reason: fmt.Sprintf("tiers %d and %d are not contiguous: ceiling %d, next floor %d",
					i, i+1, *t.MaxQuantity, next.MinQuantity)}
		}
	}

	if scoped[0].MinQuantity != 0 {
		return RateSchedule{}, &ScheduleError{ContractID: contractID, Format: format,
			Reason: fmt.Sprintf("first tier must start at quantity 0, got %d", scoped[0].MinQuantity)}
	}

	return RateSchedule{ContractID: contractID, Format: format, Tiers: scoped}, nil
}

// Formats returns the distinct formats present in a contract's tier set, in
// stable order. These are the formats a statement run calculates for.
func Formats(tiers []RateTier) []Format {
	seen := make(map[Format]bool, len(tiers))
	formats := make([]Format, 0, 4)
	for _, t := range tiers {
		if !seen[t.Format] {
			seen[t.Format] = true
			formats = append(formats, t.Format)
		}
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

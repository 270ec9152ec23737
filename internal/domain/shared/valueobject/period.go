package valueobject

import (
	"errors"
	"fmt"
	"time"
)

// Period is a half-open time interval [Start, End).
// Sales and returns are attributed to a period when their occurrence time
// falls inside the interval; End itself is excluded.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod creates a new Period, validating that End is after Start
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, errors.New("period bounds cannot be zero")
	}
	if !end.After(start) {
		return Period{}, fmt.Errorf("period end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls within [Start, End)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Equals reports whether both periods have identical bounds
func (p Period) Equals(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// String returns a human-readable representation
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

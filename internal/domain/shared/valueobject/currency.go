package valueobject

// Currency is an ISO 4217 currency code. Each tenant operates in a single
// configured currency; cross-currency conversion is out of scope, so amounts
// are plain decimals and the currency travels on the statement calculation.
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
)

// DefaultCurrency is the platform default
const DefaultCurrency = USD

// MinorUnitPlaces is the number of decimal places of the currency minor unit.
// Royalty amounts round to this precision at the statement boundary.
const MinorUnitPlaces int32 = 2

// IsValid reports whether the code is one the platform supports
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, CAD, AUD:
		return true
	}
	return false
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

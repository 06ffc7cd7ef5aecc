package validate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	moneyPlaces        = 2
	moneyIntegerDigits = 12
)

// MaxMoney is the largest magnitude a numeric(14,2) column holds.
var MaxMoney = decimal.New(99999999999999, -moneyPlaces)

// Error reports malformed input for a single request field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Field(field, message string) error {
	return &Error{Field: field, Message: message}
}

// Money rounds value to cents and rejects magnitudes storage cannot hold. The size is judged from
// the coefficient's digit count and the exponent before any rescaling, since rounding a value
// like 1e300000000 allocates a power of ten of that many digits.
func Money(field string, value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsZero() {
		return decimal.Zero, nil
	}

	magnitude := value.NumDigits() + int(value.Exponent())
	if magnitude > moneyIntegerDigits {
		return decimal.Zero, Field(field, "is too large")
	}
	// Below a thousandth everything rounds to zero.
	if magnitude < -moneyPlaces {
		return decimal.Zero, nil
	}

	rounded := value.Round(moneyPlaces)
	if rounded.Abs().GreaterThan(MaxMoney) {
		return decimal.Zero, Field(field, "is too large")
	}
	return rounded, nil
}

// WithinMoney reports whether value fits the money column.
func WithinMoney(value decimal.Decimal) bool {
	return !value.Abs().GreaterThan(MaxMoney)
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents). It travels over JSON as a
// fixed two-decimal string such as "45.50" and is stored as an INTEGER.
type Money int64

// ParseMoney converts a decimal string into minor units. At most two decimal
// places are accepted; anything that is not a finite number is rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return moneyFromDecimal(d)
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d.String())
	}
	minor := d.Shift(2)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", d.String())
	}
	return Money(minor.IntPart()), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Minor returns the amount in minor units, as payment providers expect it.
func (m Money) Minor() int64 { return int64(m) }

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string such as "45.50" or a JSON number such as
// 45.50. null leaves the amount at zero; an empty string is rejected.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*m = 0
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("invalid amount %s", b)
		}
		if raw == "" {
			return fmt.Errorf("amount must not be empty")
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid amount %s", b)
		}
		raw = n.String()
	}

	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a currency amount in hundredths of a unit. All stake and payout
// arithmetic happens at this precision; floats appear only at the parsing
// and formatting boundary.
type Cents int64

// Scale is the number of cents per whole unit.
const Scale = 100

// FromUnits converts a whole-unit amount to Cents.
func FromUnits(units int64) Cents {
	return Cents(units * Scale)
}

// FromFloat converts a float amount to Cents, rounding half away from zero
// at the hundredth. Used only when decoding external input.
func FromFloat(v float64) Cents {
	if v >= 0 {
		return Cents(v*Scale + 0.5)
	}
	return Cents(v*Scale - 0.5)
}

// Float returns the amount as a float64 in whole units.
func (c Cents) Float() float64 {
	return float64(c) / Scale
}

// String renders the amount with trailing zeros trimmed: 1500 -> "15",
// 750 -> "7.5", 343 -> "3.43".
func (c Cents) String() string {
	whole := int64(c) / Scale
	frac := int64(c) % Scale
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	if frac < 0 {
		frac = -frac
	}
	sign := ""
	if c < 0 && whole == 0 {
		sign = "-"
	}
	s := fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	return strings.TrimRight(s, "0")
}

// MarshalJSON renders the amount as a plain JSON number in whole units
// ("7.5", "-8", "3.43").
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse reads a decimal string ("7.5", "-8", "3.43") into Cents.
// More than two fractional digits is an error.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse amount: empty string")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	wholePart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		wholePart, fracPart = s[:i], s[i+1:]
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("parse amount %q: more than 2 decimal places", s)
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	c := Cents(whole*Scale + frac)
	if neg {
		c = -c
	}
	return c, nil
}

// DivideHalfEven divides an amount evenly into n parts, rounding the result
// to the nearest cent with ties going to the even cent (banker's rounding).
// n must be positive.
func DivideHalfEven(total Cents, n int) Cents {
	if n <= 0 {
		panic("money: DivideHalfEven with non-positive divisor")
	}

	t := int64(total)
	d := int64(n)

	neg := false
	if t < 0 {
		neg = true
		t = -t
	}

	q := t / d
	r := t % d

	// Compare remainder against half the divisor at double precision to
	// avoid fractional halves: 2r vs d.
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}

	if neg {
		q = -q
	}
	return Cents(q)
}

package money_test

import (
	"encoding/json"
	"testing"

	"BetPool/internal/money"
)

func TestCents_String(t *testing.T) {
	cases := []struct {
		in   money.Cents
		want string
	}{
		{money.FromUnits(15), "15"},
		{money.Cents(750), "7.5"},
		{money.Cents(343), "3.43"},
		{money.Cents(-800), "-8"},
		{money.Cents(-1250), "-12.5"},
		{money.Cents(-50), "-0.5"},
		{money.Cents(0), "0"},
		{money.Cents(1067), "10.67"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("Cents(%d).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{"15", "7.5", "3.43", "-8", "-0.5", "0"} {
		c, err := money.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := c.String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, s := range []string{"", "abc", "1.234"} {
		if _, err := money.Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestDivideHalfEven(t *testing.T) {
	cases := []struct {
		total money.Cents
		n     int
		want  money.Cents
	}{
		{5600, 7, 800},  // exact division
		{5600, 3, 1867}, // 1866.67 rounds up
		{100, 8, 12},    // 12.5 ties to even (12)
		{300, 8, 38},    // 37.5 ties to even (38)
		{-5600, 3, -1867},
	}
	for _, c := range cases {
		if got := money.DivideHalfEven(c.total, c.n); got != c.want {
			t.Errorf("DivideHalfEven(%d, %d) = %d, want %d", c.total, c.n, got, c.want)
		}
	}
}

func TestCents_JSON(t *testing.T) {
	data, err := json.Marshal(money.Cents(750))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "7.5" {
		t.Errorf("marshal = %s, want 7.5", data)
	}

	var c money.Cents
	if err := json.Unmarshal([]byte("-8"), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != money.Cents(-800) {
		t.Errorf("unmarshal -8 = %d, want -800", c)
	}
}

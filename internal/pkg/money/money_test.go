package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4583.3333", "4583.33"},
		{"0.005", "0.01"},
		{"10.125", "10.13"},
		{"-2.345", "-2.35"},
	}
	for _, tt := range tests {
		got := Round(decimal.RequireFromString(tt.in))
		if got.StringFixed(2) != tt.want {
			t.Errorf("Round(%s) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(50000), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Percent = %s, want 5000", got)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse(" 1,250.50 ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("1250.5")) {
		t.Errorf("Parse = %s", d)
	}

	if _, err := Parse("abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"110000", "₦110,000.00"},
		{"4583.33", "₦4,583.33"},
		{"999", "₦999.00"},
		{"-1234567.8", "-₦1,234,567.80"},
	}
	for _, tt := range tests {
		if got := Format("₦", decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package currency

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{"JPY", JPY, false},
		{"usd", USD, false},
		{" jpy ", JPY, false},
		{"EUR", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err != ErrUnsupportedCurrency {
					t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("Parse(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		cur    Currency
		tag    language.Tag
		want   string
	}{
		{"yen japanese", 121967.98722, JPY, language.Japanese, "¥121,968"},
		{"yen english", 1000000, JPY, language.English, "¥1,000,000"},
		{"dollar english", 1234.5, USD, language.English, "$1,234.50"},
		{"dollar rounds cents", 121967.98722, USD, language.English, "$121,967.99"},
		{"small", 25, JPY, language.Japanese, "¥25"},
		{"zero", 0, USD, language.English, "$0.00"},
		{"negative", -1000, JPY, language.Japanese, "-¥1,000"},
		{"negative rounding to zero", -0.001, USD, language.English, "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount, tt.cur, tt.tag); got != tt.want {
				t.Errorf("Format(%v, %s) = %q, want %q", tt.amount, tt.cur, got, tt.want)
			}
		})
	}
}

func TestFormatShort(t *testing.T) {
	tests := []struct {
		amount float64
		cur    Currency
		want   string
	}{
		{121967.98722, JPY, "¥12万"},
		{1200000, JPY, "¥120万"},
		{121967.98722, USD, "$121.97K"},
		{500, USD, "$0.50K"},
		{0, JPY, "¥0万"},
	}
	for _, tt := range tests {
		if got := FormatShort(tt.amount, tt.cur); got != tt.want {
			t.Errorf("FormatShort(%v, %s) = %q, want %q", tt.amount, tt.cur, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567.891, language.English); got != "1,234,567.891" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(1000, language.Japanese); got != "1,000" {
		t.Errorf("FormatNumber = %q", got)
	}
}

func TestCurrencyUnits(t *testing.T) {
	if JPY.Symbol() != "¥" || JPY.Decimals() != 0 || JPY.ShortDivisor() != 10000 || JPY.ShortUnit() != "万" {
		t.Fatalf("unexpected JPY units")
	}
	if USD.Symbol() != "$" || USD.Decimals() != 2 || USD.ShortDivisor() != 1000 || USD.ShortUnit() != "K" {
		t.Fatalf("unexpected USD units")
	}
}

func TestFormatNonFinite(t *testing.T) {
	if got := Format(math.NaN(), USD, language.English); got != "$NaN" {
		t.Errorf("Format(NaN) = %q", got)
	}
	if got := FormatShort(math.Inf(1), JPY); got != "¥+Inf万" {
		t.Errorf("FormatShort(+Inf) = %q", got)
	}
}

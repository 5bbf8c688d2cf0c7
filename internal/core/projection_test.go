package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestProject_MonthlyContributions(t *testing.T) {
	out := Project(Params{MonthlyAmount: 10000, AnnualRatePercent: 3, TotalMonths: 12}, RoundingPrecise)
	if len(out) != 12 {
		t.Fatalf("len = %d, want 12", len(out))
	}

	first := out[0]
	if first.Month != 1 || first.Principal != 10000 {
		t.Fatalf("unexpected first snapshot: %+v", first)
	}
	if math.Abs(first.Interest-25) > 1e-9 || first.Total <= 10000 {
		t.Fatalf("first month interest = %v, want 25", first.Interest)
	}

	last := out[11]
	if last.Principal != 120000 {
		t.Fatalf("month 12 principal = %v, want 120000", last.Principal)
	}
	if math.Abs(last.Total-121967.987) > 0.01 {
		t.Fatalf("month 12 total = %v, want ~121967.99", last.Total)
	}
	if math.Abs(last.Interest-1967.987) > 0.01 {
		t.Fatalf("month 12 interest = %v, want ~1967.99", last.Interest)
	}
}

func TestProject_ZeroRateKeepsPrincipal(t *testing.T) {
	out := Project(Params{InitialAmount: 100000, TotalMonths: 5}, RoundingPrecise)
	want := make([]Snapshot, 5)
	for i := range want {
		want[i] = Snapshot{Month: i + 1, Principal: 100000, Interest: 0, Total: 100000}
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected snapshots (-want +got):\n%s", diff)
	}
}

func TestProject_NoMonths(t *testing.T) {
	for _, months := range []int{0, -1} {
		out := Project(Params{InitialAmount: 5, MonthlyAmount: 5, AnnualRatePercent: 5, TotalMonths: months}, RoundingPrecise)
		if out == nil || len(out) != 0 {
			t.Fatalf("months=%d: expected empty non-nil slice, got %#v", months, out)
		}
	}
}

func TestProject_AllZero(t *testing.T) {
	out := Project(Params{AnnualRatePercent: 7, TotalMonths: 3}, RoundingRounded)
	want := []Snapshot{{Month: 1}, {Month: 2}, {Month: 3}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected snapshots (-want +got):\n%s", diff)
	}
}

func TestProject_Invariants(t *testing.T) {
	cases := []Params{
		{InitialAmount: 0, MonthlyAmount: 10000, AnnualRatePercent: 3, TotalMonths: 360},
		{InitialAmount: 250000, MonthlyAmount: 33333.33, AnnualRatePercent: 7.5, TotalMonths: 480},
		{InitialAmount: 1000, MonthlyAmount: 0, AnnualRatePercent: 0.1, TotalMonths: 24},
		{InitialAmount: 0.01, MonthlyAmount: 0.01, AnnualRatePercent: 100, TotalMonths: 120},
	}

	for _, mode := range []RoundingMode{RoundingPrecise, RoundingRounded} {
		for _, p := range cases {
			out := Project(p, mode)
			if len(out) != p.TotalMonths {
				t.Fatalf("%s %+v: len = %d", mode, p, len(out))
			}
			for i, s := range out {
				if s.Month != i+1 {
					t.Fatalf("%s %+v: month[%d] = %d", mode, p, i, s.Month)
				}
				if diff := math.Abs(s.Total - (s.Principal + s.Interest)); diff > 1e-6 {
					t.Fatalf("%s %+v month %d: total != principal+interest (diff %v)", mode, p, s.Month, diff)
				}
				if i == 0 {
					continue
				}
				prev := out[i-1]
				if s.Total < prev.Total {
					t.Fatalf("%s %+v month %d: total decreased %v -> %v", mode, p, s.Month, prev.Total, s.Total)
				}
				step := s.Principal - prev.Principal
				tolerance := 1e-6
				if mode == RoundingRounded {
					tolerance = 1
				}
				if math.Abs(step-p.MonthlyAmount) > tolerance {
					t.Fatalf("%s %+v month %d: principal step %v, want %v", mode, p, s.Month, step, p.MonthlyAmount)
				}
			}
		}
	}
}

func TestProject_RoundedModeAbsorbsResidue(t *testing.T) {
	p := Params{InitialAmount: 0.4, MonthlyAmount: 10000.4, AnnualRatePercent: 3, TotalMonths: 24}
	precise := Project(p, RoundingPrecise)
	rounded := Project(p, RoundingRounded)

	for i := range rounded {
		r, x := rounded[i], precise[i]
		if r.Principal != math.Round(x.Principal) {
			t.Fatalf("month %d: principal %v, want %v", r.Month, r.Principal, math.Round(x.Principal))
		}
		if r.Total != math.Round(x.Total) {
			t.Fatalf("month %d: total %v, want %v", r.Month, r.Total, math.Round(x.Total))
		}
		if r.Interest != r.Total-r.Principal {
			t.Fatalf("month %d: interest %v is not total-principal", r.Month, r.Interest)
		}
		if r.Interest != math.Trunc(r.Interest) {
			t.Fatalf("month %d: interest %v is not whole", r.Month, r.Interest)
		}
	}

	// the balance keeps compounding unrounded, so the modes agree within half a unit
	opt := cmpopts.EquateApprox(0, 0.5)
	if diff := cmp.Diff(totals(precise), totals(rounded), opt); diff != "" {
		t.Fatalf("rounded totals drifted from precise (-precise +rounded):\n%s", diff)
	}
}

func TestProject_Idempotent(t *testing.T) {
	p := Params{InitialAmount: 12345.67, MonthlyAmount: 890.12, AnnualRatePercent: 4.2, TotalMonths: 600}
	for _, mode := range []RoundingMode{RoundingPrecise, RoundingRounded} {
		a, b := Project(p, mode), Project(p, mode)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("%s: repeated call differs:\n%s", mode, diff)
		}
	}
}

func TestProject_NaNPropagates(t *testing.T) {
	out := Project(Params{InitialAmount: math.NaN(), TotalMonths: 2}, RoundingPrecise)
	if len(out) != 2 || !math.IsNaN(out[1].Total) {
		t.Fatalf("expected NaN to propagate, got %+v", out)
	}
}

func TestParseRoundingMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RoundingMode
		wantErr bool
	}{
		{"", RoundingPrecise, false},
		{"precise", RoundingPrecise, false},
		{" Rounded ", RoundingRounded, false},
		{"banker", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRoundingMode(tt.in)
			if tt.wantErr {
				if err != ErrInvalidRoundingMode {
					t.Fatalf("expected ErrInvalidRoundingMode, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseRoundingMode(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestYearlyBuckets(t *testing.T) {
	out := Project(Params{MonthlyAmount: 100, TotalMonths: 30}, RoundingPrecise)
	buckets := YearlyBuckets(out)

	want := []YearBucket{
		{Year: 1, Principal: 1200, Total: 1200},
		{Year: 2, Principal: 2400, Total: 2400},
		{Year: 3, Principal: 3000, Total: 3000},
	}
	if diff := cmp.Diff(want, buckets); diff != "" {
		t.Fatalf("unexpected buckets (-want +got):\n%s", diff)
	}

	if got := YearlyBuckets(nil); len(got) != 0 {
		t.Fatalf("expected no buckets for empty input, got %v", got)
	}
}

func TestFinal(t *testing.T) {
	if _, ok := Final(nil); ok {
		t.Fatal("expected no final snapshot for empty projection")
	}
	out := Project(Params{MonthlyAmount: 1, TotalMonths: 4}, RoundingPrecise)
	last, ok := Final(out)
	if !ok || last.Month != 4 || last.Principal != 4 {
		t.Fatalf("unexpected final snapshot: %+v ok=%v", last, ok)
	}
}

func totals(s []Snapshot) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Total
	}
	return out
}

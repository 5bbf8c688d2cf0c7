// Package core implements the savings projection engine.
//
// Project is a pure function: it holds no state between calls and is safe
// for concurrent use. Everything around it (parsing, formatting,
// persistence, rendering) lives in other packages and consumes its output.
package core

import "math"

// MonthlyRate converts a nominal annual percentage into the rate applied
// once per month.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// Project computes the month-by-month trajectory of a periodic investment.
//
// Each month the contribution is added first and interest then accrues on
// the post-contribution balance. Principal is computed in closed form
// (initial + monthly*month) instead of being accumulated, so it cannot drift.
//
// The returned slice has exactly p.TotalMonths elements and is empty (not
// nil) when p.TotalMonths <= 0. Non-finite inputs propagate through the
// arithmetic; validation is the caller's job.
func Project(p Params, mode RoundingMode) []Snapshot {
	if p.TotalMonths <= 0 {
		return []Snapshot{}
	}

	rate := MonthlyRate(p.AnnualRatePercent)
	running := p.InitialAmount
	out := make([]Snapshot, 0, p.TotalMonths)

	for month := 1; month <= p.TotalMonths; month++ {
		running += p.MonthlyAmount
		running += running * rate

		principal := p.InitialAmount + p.MonthlyAmount*float64(month)
		out = append(out, snapshot(month, principal, running, mode))
	}

	return out
}

func snapshot(month int, principal, total float64, mode RoundingMode) Snapshot {
	if mode == RoundingRounded {
		// running balance stays unrounded; only the emitted values are
		principal = math.Round(principal)
		total = math.Round(total)
	}
	return Snapshot{
		Month:     month,
		Principal: principal,
		Interest:  total - principal,
		Total:     total,
	}
}

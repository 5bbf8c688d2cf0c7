package core

import (
	"math"
	"strconv"
	"strings"
)

// Inputs are the already-parsed form values. Blank or invalid text has
// been replaced by zero before an Inputs value is built.
type Inputs struct {
	InitialAmount float64
	MonthlyAmount float64
	AnnualRate    float64
	Years         int
	Months        int
}

// Params converts the form values into engine parameters.
func (in Inputs) Params() Params {
	return Params{
		InitialAmount:     in.InitialAmount,
		MonthlyAmount:     in.MonthlyAmount,
		AnnualRatePercent: in.AnnualRate,
		TotalMonths:       TotalMonths(in.Years, in.Months),
	}
}

// Ready reports whether the inputs describe something worth projecting.
// With nothing invested, a negative rate, or no duration, callers show
// a "no input yet" placeholder instead of running the engine.
func (in Inputs) Ready() bool {
	if in.InitialAmount == 0 && in.MonthlyAmount <= 0 {
		return false
	}
	if in.AnnualRate < 0 {
		return false
	}
	return TotalMonths(in.Years, in.Months) > 0
}

// ParseAmount converts user text to a number, returning 0 for anything
// that is not a finite number.
//
// Currency symbols and spaces are ignored. When both ',' and '.' appear the
// commas are treated as grouping separators; a single comma followed by
// something other than exactly three digits is a decimal separator.
//
// Examples:
//
//	ParseAmount("10000")     -> 10000
//	ParseAmount("1,234.5")   -> 1234.5
//	ParseAmount("12,5")      -> 12.5
//	ParseAmount("¥1,000")    -> 1000
//	ParseAmount("abc")       -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '¥', '$', '円', '_':
			return -1
		}
		return r
	}, s)

	switch commas := strings.Count(s, ","); {
	case commas == 0:
	case strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case commas == 1 && len(s)-strings.Index(s, ",")-1 != 3:
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseCount converts user text to a whole number, truncating any
// fractional part. Invalid text yields 0.
func ParseCount(s string) int {
	v := ParseAmount(s)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}

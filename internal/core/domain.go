package core

import (
	"errors"
	"strings"
)

const (
	// RoundingPrecise keeps full float64 precision in every snapshot field.
	RoundingPrecise RoundingMode = "precise"
	// RoundingRounded rounds principal and total to whole units and derives
	// interest from them, so interest absorbs the rounding residue.
	RoundingRounded RoundingMode = "rounded"
)

type (
	RoundingMode string

	// Params is the input of a projection. Values are expected to be
	// validated and defaulted by the caller.
	Params struct {
		InitialAmount     float64 // lump sum present at month 0
		MonthlyAmount     float64 // contribution added at the start of each month
		AnnualRatePercent float64 // nominal annual rate, 3 means 3%
		TotalMonths       int
	}

	// Snapshot is the state of the account at the end of one month.
	Snapshot struct {
		Month     int     `json:"month"`
		Principal float64 `json:"principal"`
		Interest  float64 `json:"interest"`
		Total     float64 `json:"total"`
	}

	// YearBucket is the representative snapshot of one calendar year of the
	// projection: the last month observed for that year.
	YearBucket struct {
		Year      int     `json:"year"`
		Principal float64 `json:"principal"`
		Interest  float64 `json:"interest"`
		Total     float64 `json:"total"`
	}
)

var (
	ErrInvalidRoundingMode = errors.New("invalid rounding mode")
)

// ParseRoundingMode maps a configuration or query value to a RoundingMode.
// A blank value selects RoundingPrecise.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RoundingPrecise):
		return RoundingPrecise, nil
	case string(RoundingRounded):
		return RoundingRounded, nil
	default:
		return "", ErrInvalidRoundingMode
	}
}

// String implements fmt.Stringer
func (m RoundingMode) String() string {
	return string(m)
}

// TotalMonths converts a years+months duration into a month count.
func TotalMonths(years, months int) int {
	return years*12 + months
}

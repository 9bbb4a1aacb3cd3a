package models

import (
	"fmt"
	"math"

	"FinDash/pkg/util"
)

// DefaultMultiplier is the k used when none is given, and the fixed k of the
// chat outlier answer.
const DefaultMultiplier = 1.5

// Percentile levels of the spread. These are intentionally 15/85 rather than
// quartiles.
const (
	LowerPercentile = 0.15
	UpperPercentile = 0.85
)

// QuantileThresholds are derived from the non-missing amounts on every run.
// All fields are NaN when there are no amounts.
type QuantileThresholds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Upper float64
	Lower float64
}

// Defined reports whether thresholds were computed from at least one amount.
func (t QuantileThresholds) Defined() bool {
	return !math.IsNaN(t.Q1) && !math.IsNaN(t.Q3)
}

// OutlierParams configures one detection run.
type OutlierParams struct {
	K       float64
	FlagLow bool
}

// OutlierDefaults fill the k and preview limit of a request that omits them.
type OutlierDefaults struct {
	K     float64
	Limit int
}

// OutlierResult lists flagged rows by dataset position, in input order.
type OutlierResult struct {
	Thresholds QuantileThresholds
	Params     OutlierParams
	Rows       []int
	Count      int
	Total      float64
}

// ThresholdText describes the active classification rule.
func (r OutlierResult) ThresholdText() string {
	if !r.Thresholds.Defined() {
		return "Thresholds are undefined (no numeric amounts)"
	}
	if r.Params.FlagLow {
		return fmt.Sprintf("Outliers are values > %s or < %s",
			util.FormatAmount(r.Thresholds.Upper),
			util.FormatAmount(r.Thresholds.Lower))
	}
	return fmt.Sprintf("Outliers are values > %s", util.FormatAmount(r.Thresholds.Upper))
}

package features

import (
	"math"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/analytics"
)

// AmountDistribution builds an equal-width histogram over [min, max] and
// box-plot statistics of the parsed amounts.
func AmountDistribution(ds *models.Dataset, bins int) (models.AmountDistribution, error) {
	if err := ds.Require(models.ColAmount); err != nil {
		return models.AmountDistribution{}, err
	}
	amounts := ds.Amounts()
	return models.AmountDistribution{
		Count:     len(amounts),
		Histogram: Histogram(amounts, bins),
		Box:       BoxPlot(amounts),
	}, nil
}

// Histogram splits the value range into bins equal-width intervals. Every
// interval is half-open except the last, which includes max. A degenerate
// range is widened by 0.5 on each side.
func Histogram(xs []float64, bins int) []models.HistogramBin {
	if len(xs) == 0 || bins <= 0 {
		return []models.HistogramBin{}
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Lower = models.Number(lo + float64(i)*width)
		out[i].Upper = models.Number(lo + float64(i+1)*width)
	}
	out[bins-1].Upper = models.Number(hi)

	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// BoxPlot uses quartiles with whiskers at the furthest points within
// 1.5 IQR of the box. Points beyond the whiskers are fliers.
func BoxPlot(xs []float64) models.BoxStats {
	if len(xs) == 0 {
		nan := models.Number(math.NaN())
		return models.BoxStats{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, WhiskerLow: nan, WhiskerHigh: nan}
	}
	sorted := analytics.Sorted(xs)
	q1 := analytics.Quantile(sorted, 0.25)
	med := analytics.Quantile(sorted, 0.5)
	q3 := analytics.Quantile(sorted, 0.75)
	iqr := q3 - q1
	loFence, hiFence := q1-1.5*iqr, q3+1.5*iqr

	wLo, wHi := math.Inf(1), math.Inf(-1)
	fliers := 0
	for _, x := range sorted {
		if x < loFence || x > hiFence {
			fliers++
			continue
		}
		wLo = math.Min(wLo, x)
		wHi = math.Max(wHi, x)
	}

	return models.BoxStats{
		Min:         models.Number(sorted[0]),
		Q1:          models.Number(q1),
		Median:      models.Number(med),
		Q3:          models.Number(q3),
		Max:         models.Number(sorted[len(sorted)-1]),
		WhiskerLow:  models.Number(wLo),
		WhiskerHigh: models.Number(wHi),
		Fliers:      fliers,
	}
}

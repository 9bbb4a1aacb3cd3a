package analytics

import (
	"fmt"
	"math"

	"FinDash/internal/domain/models"
	domsvc "FinDash/internal/domain/service"

	"github.com/shopspring/decimal"
)

// IQRDetector flags amounts beyond k spreads of the 15th..85th percentile band.
type IQRDetector struct{}

func NewOutlierDetector() *IQRDetector {
	return &IQRDetector{}
}

var _ domsvc.OutlierDetector = (*IQRDetector)(nil)

// Thresholds derives the classification bounds from the given amounts.
func (d *IQRDetector) Thresholds(amounts []float64, k float64) models.QuantileThresholds {
	if len(amounts) == 0 {
		nan := math.NaN()
		return models.QuantileThresholds{Q1: nan, Q3: nan, IQR: nan, Upper: nan, Lower: nan}
	}
	sorted := Sorted(amounts)
	q1 := Quantile(sorted, models.LowerPercentile)
	q3 := Quantile(sorted, models.UpperPercentile)
	iqr := q3 - q1
	return models.QuantileThresholds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Upper: q3 + k*iqr,
		Lower: q1 - k*iqr,
	}
}

// Detect returns flagged rows in input order. Rows without an amount are never
// flagged. An empty or all-missing dataset yields NaN thresholds and no rows.
func (d *IQRDetector) Detect(ds *models.Dataset, p models.OutlierParams) (models.OutlierResult, error) {
	if p.K <= 0 || math.IsNaN(p.K) || math.IsInf(p.K, 0) {
		return models.OutlierResult{}, fmt.Errorf("k=%v: %w", p.K, models.ErrInvalidMultiplier)
	}

	res := models.OutlierResult{
		Thresholds: d.Thresholds(ds.Amounts(), p.K),
		Params:     p,
		Rows:       []int{},
	}
	if !res.Thresholds.Defined() {
		return res, nil
	}

	total := decimal.Zero
	for i, r := range ds.Records {
		if !r.HasAmount {
			continue
		}
		if r.Amount > res.Thresholds.Upper || (p.FlagLow && r.Amount < res.Thresholds.Lower) {
			res.Rows = append(res.Rows, i)
			total = total.Add(decimal.NewFromFloat(r.Amount))
		}
	}
	res.Count = len(res.Rows)
	res.Total = total.InexactFloat64()
	return res, nil
}

package usecase

import (
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/internal/services/features"
)

// Dashboard serves the read-only dashboard views over the loaded dataset.
type Dashboard struct {
	ds      *models.Dataset
	metrics drepo.Metrics
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(ds *models.Dataset, metrics drepo.Metrics) *Dashboard {
	return &Dashboard{ds: ds, metrics: metrics}
}

// Rows returns the number of loaded transactions.
func (d *Dashboard) Rows() int {
	return d.ds.Len()
}

func (d *Dashboard) Summary() models.Summary {
	defer d.observe("summary", time.Now())
	return features.Summary(d.ds)
}

func (d *Dashboard) TimeSeries(freq, metric string) (models.TimeSeries, error) {
	defer d.observe("timeseries", time.Now())
	ts, err := features.TimeSeries(d.ds, freq, metric)
	if err != nil {
		return models.TimeSeries{}, d.fail("timeseries", err)
	}
	return ts, nil
}

func (d *Dashboard) Amount(bins int) (models.AmountDistribution, error) {
	defer d.observe("amount", time.Now())
	dist, err := features.AmountDistribution(d.ds, bins)
	if err != nil {
		return models.AmountDistribution{}, d.fail("amount", err)
	}
	return dist, nil
}

func (d *Dashboard) Categorical(column, agg string, topN int, sortBy string) (models.CategoryBars, error) {
	defer d.observe("categorical", time.Now())
	bars, err := features.CategoryBars(d.ds, column, agg, topN, sortBy)
	if err != nil {
		return models.CategoryBars{}, d.fail("categorical", err)
	}
	return bars, nil
}

// Heatmap builds the matrix for kind. topN only applies to category-merchant.
func (d *Dashboard) Heatmap(kind string, topN int) (models.Matrix, error) {
	defer d.observe("heatmap", time.Now())

	var (
		m   models.Matrix
		err error
	)
	switch kind {
	case features.HeatmapCategoryPayment:
		m, err = features.CategoryByPayment(d.ds)
	case features.HeatmapCategoryMerchant:
		m, err = features.CategoryByMerchant(d.ds, topN)
	case features.HeatmapMonthCategory:
		m, err = features.MonthByCategory(d.ds)
	case features.HeatmapDailyCorrelation:
		m, err = features.DailyCorrelation(d.ds)
	default:
		err = fmt.Errorf("%q: %w", kind, models.ErrUnknownHeatmap)
	}
	if err != nil {
		return models.Matrix{}, d.fail("heatmap", err)
	}
	return m, nil
}

func (d *Dashboard) Preview(n int) models.Table {
	return features.Preview(d.ds, n)
}

func (d *Dashboard) Describe() []models.ColumnSummary {
	defer d.observe("describe", time.Now())
	return features.Describe(d.ds)
}

func (d *Dashboard) Quality() models.DataQuality {
	defer d.observe("quality", time.Now())
	return features.Quality(d.ds)
}

func (d *Dashboard) Filter(column, value string, limit int) (models.Table, error) {
	t, err := features.Filter(d.ds, column, value, limit)
	if err != nil {
		return models.Table{}, d.fail("filter", err)
	}
	return t, nil
}

func (d *Dashboard) observe(op string, start time.Time) {
	d.metrics.RecordLatency(op, time.Since(start).Seconds())
}

func (d *Dashboard) fail(op string, err error) error {
	d.metrics.RecordError(op)
	return fmt.Errorf("%s: %w", op, err)
}

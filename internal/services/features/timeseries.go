package features

import (
	"fmt"
	"math"
	"time"

	"FinDash/internal/domain/models"

	"github.com/shopspring/decimal"
)

const (
	FreqDaily   = "D"
	FreqWeekly  = "W"
	FreqMonthly = "M"

	MetricCount = "count"
	MetricSum   = "sum"
	MetricMean  = "mean"
)

// BucketOf maps t to its resampling label: the day itself, the Sunday that
// ends its week, or the last day of its month. Wall-clock fields are kept.
func BucketOf(t time.Time, freq string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch freq {
	case FreqWeekly:
		return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
	case FreqMonthly:
		return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// nextBucket returns the label following b.
func nextBucket(b time.Time, freq string) time.Time {
	switch freq {
	case FreqWeekly:
		return b.AddDate(0, 0, 7)
	case FreqMonthly:
		return time.Date(b.Year(), b.Month()+2, 0, 0, 0, 0, 0, time.UTC)
	default:
		return b.AddDate(0, 0, 1)
	}
}

type bucketAgg struct {
	rows       int
	amountRows int
	sum        decimal.Decimal
}

func (a bucketAgg) mean() float64 {
	if a.amountRows == 0 {
		return math.NaN()
	}
	return a.sum.Div(decimal.NewFromInt(int64(a.amountRows))).InexactFloat64()
}

// resample buckets dated rows and fills every gap between the first and last
// bucket. countCol, when non-empty, restricts row counting to rows where that
// column has a value.
func resample(ds *models.Dataset, freq, countCol string) ([]time.Time, []bucketAgg) {
	aggs := map[time.Time]*bucketAgg{}
	var first, last time.Time
	for i, r := range ds.Records {
		if !r.HasDate {
			continue
		}
		b := BucketOf(r.Date, freq)
		a, ok := aggs[b]
		if !ok {
			a = &bucketAgg{sum: decimal.Zero}
			aggs[b] = a
		}
		if first.IsZero() || b.Before(first) {
			first = b
		}
		if last.IsZero() || b.After(last) {
			last = b
		}
		if countCol == "" {
			a.rows++
		} else if _, ok := ds.Value(i, countCol); ok {
			a.rows++
		}
		if r.HasAmount {
			a.amountRows++
			a.sum = a.sum.Add(decimal.NewFromFloat(r.Amount))
		}
	}
	if len(aggs) == 0 {
		return nil, nil
	}

	var labels []time.Time
	var out []bucketAgg
	for b := first; !b.After(last); b = nextBucket(b, freq) {
		labels = append(labels, b)
		if a, ok := aggs[b]; ok {
			out = append(out, *a)
		} else {
			out = append(out, bucketAgg{sum: decimal.Zero})
		}
	}
	return labels, out
}

// TimeSeries resamples dated rows at freq and reports metric per bucket.
// Transaction counts use the id column when the file has one.
func TimeSeries(ds *models.Dataset, freq, metric string) (models.TimeSeries, error) {
	required := []string{models.ColDate}
	if metric != MetricCount {
		required = append(required, models.ColAmount)
	}
	if err := ds.Require(required...); err != nil {
		return models.TimeSeries{}, err
	}

	countCol := ""
	if ds.HasColumn(models.ColID) {
		countCol = models.ColID
	}
	labels, aggs := resample(ds, freq, countCol)

	ts := models.TimeSeries{Frequency: freq, Metric: metric, Points: make([]models.SeriesPoint, 0, len(labels))}
	switch metric {
	case MetricCount:
		ts.Title, ts.YLabel = fmt.Sprintf("Transactions over time (%s)", freq), "Count"
	case MetricSum:
		ts.Title, ts.YLabel = fmt.Sprintf("Sum of amount over time (%s)", freq), "Sum of amount"
	case MetricMean:
		ts.Title, ts.YLabel = fmt.Sprintf("Mean amount over time (%s)", freq), "Mean amount"
	default:
		return models.TimeSeries{}, fmt.Errorf("unknown metric %q", metric)
	}

	for i, b := range labels {
		var v float64
		switch metric {
		case MetricCount:
			v = float64(aggs[i].rows)
		case MetricSum:
			v = aggs[i].sum.InexactFloat64()
		case MetricMean:
			v = aggs[i].mean()
		}
		ts.Points = append(ts.Points, models.SeriesPoint{Period: b, Value: models.Number(v)})
	}
	return ts, nil
}

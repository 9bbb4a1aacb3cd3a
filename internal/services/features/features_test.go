package features

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const txCSV = "id,date,amount,category,merchant,payment_method,account_type,transaction_type\n" +
	"1,2024-01-01,10,Food,Cafe,Card,Checking,Debit\n" + // Monday
	"2,2024-01-01,30,Food,Cafe,Cash,Checking,Debit\n" +
	"3,2024-01-03,x,Travel,Air,Card,Savings,Debit\n" +
	"4,2024-01-09,20,Travel,Air,Card,Savings,Credit\n" +
	"5,2024-03-15,100,Food,Deli,,Checking,Debit\n" +
	"6,,50,,Deli,Card,Checking,Debit\n" +
	"6,,50,,Deli,Card,Checking,Debit\n"

func load(t *testing.T, csv string) *models.Dataset {
	t.Helper()
	ds, err := repository.ParseCSV(context.Background(), strings.NewReader(csv), "test")
	require.NoError(t, err)
	return ds
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummary(t *testing.T) {
	s := Summary(load(t, txCSV))
	assert.Equal(t, 7, s.Transactions)
	assert.Equal(t, models.Number(260), s.TotalAmount)
	assert.InDelta(t, 260.0/6, float64(s.AverageAmount), 1e-9)
	assert.Equal(t, models.Number(40), s.MedianAmount)
	assert.Equal(t, "260.00", s.TotalFm)
	assert.Equal(t, "43.33", s.AverageFm)

	empty := Summary(load(t, "amount\n\"\"\nabc\n"))
	assert.Equal(t, 2, empty.Transactions)
	assert.Equal(t, models.Number(0), empty.TotalAmount)
	assert.False(t, empty.AverageAmount.Valid())
	assert.False(t, empty.MedianAmount.Valid())
}

func TestBucketOf(t *testing.T) {
	wed := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, day(2024, 1, 3), BucketOf(wed, FreqDaily))
	assert.Equal(t, day(2024, 1, 7), BucketOf(wed, FreqWeekly))
	assert.Equal(t, day(2024, 1, 7), BucketOf(day(2024, 1, 7), FreqWeekly), "Sunday closes its own week")
	assert.Equal(t, day(2024, 1, 31), BucketOf(wed, FreqMonthly))
	assert.Equal(t, day(2024, 2, 29), BucketOf(day(2024, 2, 2), FreqMonthly))
}

func TestTimeSeries_MonthlyFillsGaps(t *testing.T) {
	ts, err := TimeSeries(load(t, txCSV), FreqMonthly, MetricCount)
	require.NoError(t, err)
	require.Len(t, ts.Points, 3)
	assert.Equal(t, day(2024, 1, 31), ts.Points[0].Period)
	assert.Equal(t, models.Number(4), ts.Points[0].Value)
	assert.Equal(t, day(2024, 2, 29), ts.Points[1].Period)
	assert.Equal(t, models.Number(0), ts.Points[1].Value)
	assert.Equal(t, models.Number(1), ts.Points[2].Value)
	assert.Equal(t, "Transactions over time (M)", ts.Title)
}

func TestTimeSeries_WeeklySumAndMean(t *testing.T) {
	ds := load(t, txCSV)

	sum, err := TimeSeries(ds, FreqWeekly, MetricSum)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 7), sum.Points[0].Period)
	assert.Equal(t, models.Number(40), sum.Points[0].Value, "unparsed amounts are skipped")
	assert.Equal(t, models.Number(20), sum.Points[1].Value)

	mean, err := TimeSeries(ds, FreqWeekly, MetricMean)
	require.NoError(t, err)
	assert.Equal(t, models.Number(20), mean.Points[0].Value)
	assert.False(t, mean.Points[2].Value.Valid(), "empty week has no mean")
	assert.Equal(t, "Mean amount", mean.YLabel)
}

func TestTimeSeries_MissingColumns(t *testing.T) {
	_, err := TimeSeries(load(t, "amount\n1\n"), FreqDaily, MetricCount)
	var mce *models.MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"date"}, mce.Columns)

	_, err = TimeSeries(load(t, "date\n2024-01-01\n"), FreqDaily, MetricSum)
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"amount"}, mce.Columns)

	ts, err := TimeSeries(load(t, "date\n2024-01-01\n"), FreqDaily, MetricCount)
	require.NoError(t, err)
	assert.Equal(t, models.Number(1), ts.Points[0].Value)
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, models.Number(0), bins[0].Lower)
	assert.Equal(t, models.Number(10), bins[4].Upper)
	counts := []int{}
	total := 0
	for _, b := range bins {
		counts = append(counts, b.Count)
		total += b.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts, "max falls in the last bin")
	assert.Equal(t, 11, total)

	same := Histogram([]float64{4, 4}, 5)
	assert.Equal(t, models.Number(3.5), same[0].Lower)
	assert.Equal(t, 2, same[2].Count)

	assert.Empty(t, Histogram(nil, 10))
}

func TestBoxPlot(t *testing.T) {
	b := BoxPlot([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	assert.Equal(t, models.Number(3), b.Q1)
	assert.Equal(t, models.Number(5), b.Median)
	assert.Equal(t, models.Number(7), b.Q3)
	assert.Equal(t, models.Number(1), b.WhiskerLow)
	assert.Equal(t, models.Number(8), b.WhiskerHigh)
	assert.Equal(t, 1, b.Fliers)
	assert.Equal(t, models.Number(100), b.Max)

	assert.False(t, BoxPlot(nil).Median.Valid())
}

func TestAmountDistribution(t *testing.T) {
	d, err := AmountDistribution(load(t, txCSV), 10)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Count)
	assert.Len(t, d.Histogram, 10)

	_, err = AmountDistribution(load(t, "id\n1\n"), 10)
	assert.Error(t, err)
}

func TestCategoryBars_Count(t *testing.T) {
	bars, err := CategoryBars(load(t, txCSV), models.ColCategory, MetricCount, 20, SortMetric)
	require.NoError(t, err)
	assert.Equal(t, []models.Bar{
		{Label: "Food", Value: 3},
		{Label: "(missing)", Value: 2},
		{Label: "Travel", Value: 2},
	}, bars.Bars)
	assert.Equal(t, "Distribution of category", bars.Title)
}

func TestCategoryBars_SumMeanAndSorting(t *testing.T) {
	ds := load(t, txCSV)

	sum, err := CategoryBars(ds, models.ColMerchant, MetricSum, 5, SortMetric)
	require.NoError(t, err)
	assert.Equal(t, []models.Bar{{Label: "Deli", Value: 200}, {Label: "Cafe", Value: 40}, {Label: "Air", Value: 20}}, sum.Bars)

	byLabel, err := CategoryBars(ds, models.ColMerchant, MetricMean, 2, SortLabel)
	require.NoError(t, err)
	require.Len(t, byLabel.Bars, 2)
	assert.Equal(t, "Air", byLabel.Bars[0].Label)
	assert.Equal(t, models.Number(20), byLabel.Bars[0].Value)
	assert.Equal(t, "Cafe", byLabel.Bars[1].Label)

	_, err = CategoryBars(ds, models.ColAmount, MetricCount, 5, SortMetric)
	assert.ErrorIs(t, err, models.ErrUnknownColumn)
}

func TestSortBars_UndefinedLast(t *testing.T) {
	bars := []models.Bar{
		{Label: "b", Value: models.Number(math.NaN())},
		{Label: "c", Value: 1},
		{Label: "a", Value: 1},
		{Label: "d", Value: 5},
	}
	SortBars(bars, SortMetric)
	labels := []string{}
	for _, b := range bars {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"d", "a", "c", "b"}, labels)
}

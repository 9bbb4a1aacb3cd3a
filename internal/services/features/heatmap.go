package features

import (
	"math"
	"sort"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/analytics"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	HeatmapCategoryPayment  = "category-payment"
	HeatmapCategoryMerchant = "category-merchant"
	HeatmapMonthCategory    = "month-category"
	HeatmapDailyCorrelation = "daily-correlation"
)

// Crosstab counts rows by (rowCol, colCol). Rows missing either label are
// skipped; keep, when non-nil, limits which colCol labels take part. Labels
// are sorted.
func Crosstab(ds *models.Dataset, rowCol, colCol string, keep map[string]bool) models.Matrix {
	counts := map[[2]string]int{}
	rowSet, colSet := map[string]bool{}, map[string]bool{}
	for i := range ds.Records {
		r, ok := ds.Value(i, rowCol)
		if !ok {
			continue
		}
		c, ok := ds.Value(i, colCol)
		if !ok || (keep != nil && !keep[c]) {
			continue
		}
		counts[[2]string{r, c}]++
		rowSet[r], colSet[c] = true, true
	}

	m := models.Matrix{RowLabel: rowCol, ColLabel: colCol, Rows: sortedKeys(rowSet), Cols: sortedKeys(colSet)}
	m.Values = make([][]models.Number, len(m.Rows))
	for i, r := range m.Rows {
		m.Values[i] = make([]models.Number, len(m.Cols))
		for j, c := range m.Cols {
			m.Values[i][j] = models.Number(counts[[2]string{r, c}])
		}
	}
	return m
}

// CategoryByPayment is the category x payment_method frequency table.
func CategoryByPayment(ds *models.Dataset) (models.Matrix, error) {
	if err := ds.Require(models.ColCategory, models.ColPaymentMethod); err != nil {
		return models.Matrix{}, err
	}
	m := Crosstab(ds, models.ColCategory, models.ColPaymentMethod, nil)
	m.Kind, m.Title = HeatmapCategoryPayment, "Frequency: Category x Payment Method"
	return m, nil
}

// CategoryByMerchant restricts the crosstab to the topN merchants by row count.
func CategoryByMerchant(ds *models.Dataset, topN int) (models.Matrix, error) {
	if err := ds.Require(models.ColCategory, models.ColMerchant); err != nil {
		return models.Matrix{}, err
	}
	groups := analytics.GroupBy(ds, models.ColMerchant)
	analytics.SortByRows(groups)
	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	keep := make(map[string]bool, len(groups))
	for _, g := range groups {
		keep[g.Label] = true
	}

	m := Crosstab(ds, models.ColCategory, models.ColMerchant, keep)
	m.Kind = HeatmapCategoryMerchant
	m.Title = "Frequency: Category x Top-" + itoa(topN) + " Merchants"
	return m, nil
}

// MonthByCategory sums amounts per (month, category), zero-filled. Months are
// labelled by their first day and only months with dated rows appear.
func MonthByCategory(ds *models.Dataset) (models.Matrix, error) {
	if err := ds.Require(models.ColDate, models.ColCategory, models.ColAmount); err != nil {
		return models.Matrix{}, err
	}
	sums := map[[2]string]decimal.Decimal{}
	monthSet, catSet := map[string]bool{}, map[string]bool{}
	for i, r := range ds.Records {
		if !r.HasDate {
			continue
		}
		cat, ok := ds.Value(i, models.ColCategory)
		if !ok {
			continue
		}
		month := time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		monthSet[month], catSet[cat] = true, true
		if r.HasAmount {
			k := [2]string{month, cat}
			sums[k] = sums[k].Add(decimal.NewFromFloat(r.Amount))
		}
	}

	m := models.Matrix{
		Kind:     HeatmapMonthCategory,
		Title:    "Monthly Spend by Category (sum of amount)",
		RowLabel: "month",
		ColLabel: models.ColCategory,
		Rows:     sortedKeys(monthSet),
		Cols:     sortedKeys(catSet),
	}
	m.Values = make([][]models.Number, len(m.Rows))
	for i, month := range m.Rows {
		m.Values[i] = make([]models.Number, len(m.Cols))
		for j, cat := range m.Cols {
			m.Values[i][j] = models.Number(sums[[2]string{month, cat}].InexactFloat64())
		}
	}
	return m, nil
}

// Daily feature names, in matrix order.
var DailyFeatures = []string{"amount_sum", "amount_mean", "transaction_count"}

// DailyCorrelation resamples dated rows by day (gaps filled) and returns the
// Pearson correlation of the daily features. Each pair uses only days where
// both features are defined; pairs with fewer than two such days or no
// variance are null.
func DailyCorrelation(ds *models.Dataset) (models.Matrix, error) {
	if err := ds.Require(models.ColDate, models.ColAmount); err != nil {
		return models.Matrix{}, err
	}
	_, days := resample(ds, FreqDaily, models.ColAmount)

	cols := make([][]float64, len(DailyFeatures))
	for _, d := range days {
		cols[0] = append(cols[0], d.sum.InexactFloat64())
		cols[1] = append(cols[1], d.mean())
		cols[2] = append(cols[2], float64(d.amountRows))
	}

	m := models.Matrix{
		Kind:     HeatmapDailyCorrelation,
		Title:    "Correlation of Daily Features",
		RowLabel: "feature",
		ColLabel: "feature",
		Rows:     DailyFeatures,
		Cols:     DailyFeatures,
		Values:   make([][]models.Number, len(DailyFeatures)),
	}
	for i := range DailyFeatures {
		m.Values[i] = make([]models.Number, len(DailyFeatures))
		for j := range DailyFeatures {
			m.Values[i][j] = models.Number(PairwiseCorrelation(cols[i], cols[j]))
		}
	}
	return m, nil
}

// PairwiseCorrelation is Pearson's r over indices where both x and y are
// finite.
func PairwiseCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if !isFinite(r) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

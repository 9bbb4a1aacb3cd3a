package features

import (
	"fmt"
	"strings"
	"testing"

	"FinDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryByPayment(t *testing.T) {
	m, err := CategoryByPayment(load(t, txCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Travel"}, m.Rows)
	assert.Equal(t, []string{"Card", "Cash"}, m.Cols)
	assert.Equal(t, [][]models.Number{{1, 1}, {2, 0}}, m.Values)

	_, err = CategoryByPayment(load(t, "category\nA\n"))
	var mce *models.MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"payment_method"}, mce.Columns)
}

func TestCategoryByMerchant_TopN(t *testing.T) {
	var b strings.Builder
	b.WriteString("category,merchant\n")
	// m0 has 1 row ... m6 has 7 rows.
	for i := 0; i < 7; i++ {
		for j := 0; j <= i; j++ {
			fmt.Fprintf(&b, "C%d,m%d\n", j%2, i)
		}
	}
	m, err := CategoryByMerchant(load(t, b.String()), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3", "m4", "m5", "m6"}, m.Cols)
	assert.Equal(t, []string{"C0", "C1"}, m.Rows)
	assert.Equal(t, "Frequency: Category x Top-5 Merchants", m.Title)

	var total models.Number
	for _, row := range m.Values {
		for _, v := range row {
			total += v
		}
	}
	assert.Equal(t, models.Number(3+4+5+6+7), total)
}

func TestMonthByCategory(t *testing.T) {
	m, err := MonthByCategory(load(t, txCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-03-01"}, m.Rows)
	assert.Equal(t, []string{"Food", "Travel"}, m.Cols)
	assert.Equal(t, [][]models.Number{{40, 20}, {100, 0}}, m.Values)

	_, err = MonthByCategory(load(t, "date,amount\n2024-01-05,10\n"))
	var mce *models.MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{models.ColCategory}, mce.Columns)
}

func TestDailyCorrelation(t *testing.T) {
	csv := "date,amount\n" +
		"2024-01-01,10\n" +
		"2024-01-02,10\n2024-01-02,20\n" +
		"2024-01-03,10\n2024-01-03,20\n2024-01-03,30\n"
	m, err := DailyCorrelation(load(t, csv))
	require.NoError(t, err)
	assert.Equal(t, DailyFeatures, m.Rows)
	for i := range DailyFeatures {
		assert.InDelta(t, 1.0, float64(m.Values[i][i]), 1e-12)
	}
	// sum (10,30,60), mean (10,15,20), count (1,2,3) all rise together.
	assert.InDelta(t, 1.0, float64(m.Values[1][2]), 1e-12)
	assert.Greater(t, float64(m.Values[0][2]), 0.9)
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
}

func TestDailyCorrelation_GapDaysAndConstant(t *testing.T) {
	// Day 2 is empty: sum 0, count 0, mean undefined.
	csv := "date,amount\n2024-01-01,5\n2024-01-03,5\n"
	m, err := DailyCorrelation(load(t, csv))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, float64(m.Values[0][2]), 1e-12)
	assert.False(t, m.Values[1][1].Valid(), "mean is constant on the days it exists")
	assert.False(t, m.Values[0][1].Valid())
}

func TestPairwiseCorrelation(t *testing.T) {
	assert.InDelta(t, -1.0, PairwiseCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	nan := PairwiseCorrelation([]float64{1}, []float64{1})
	assert.False(t, models.Number(nan).Valid())
}

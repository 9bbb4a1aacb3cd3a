package features

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/analytics"

	"gonum.org/v1/gonum/stat"
)

// Preview returns the first n rows as source text.
func Preview(ds *models.Dataset, n int) models.Table {
	if n > ds.Len() {
		n = ds.Len()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return TableOf(ds, rows, ds.Len())
}

// TableOf renders the given rows; total is the size of the full selection.
func TableOf(ds *models.Dataset, rows []int, total int) models.Table {
	out := models.Table{Columns: ds.Header, Rows: make([][]string, 0, len(rows)), Total: total}
	for _, i := range rows {
		out.Rows = append(out.Rows, ds.Records[i].Raw)
	}
	return out
}

// Filter selects rows whose trimmed cell in column equals value; an empty
// value selects rows where the cell is missing. At most limit rows are
// returned, with Total counting every match.
func Filter(ds *models.Dataset, column, value string, limit int) (models.Table, error) {
	if err := ds.Require(column); err != nil {
		return models.Table{}, err
	}
	value = strings.TrimSpace(value)
	var rows []int
	total := 0
	for i := range ds.Records {
		cell, _ := ds.Value(i, column)
		if cell != value {
			continue
		}
		total++
		if len(rows) < limit {
			rows = append(rows, i)
		}
	}
	return TableOf(ds, rows, total), nil
}

// Describe summarises every column: amount numerically over parsed values,
// everything else as text over non-empty cells.
func Describe(ds *models.Dataset) []models.ColumnSummary {
	out := make([]models.ColumnSummary, 0, len(ds.Header))
	for _, col := range ds.Header {
		if col == models.ColAmount {
			out = append(out, describeNumeric(col, ds.Amounts()))
			continue
		}
		out = append(out, describeText(ds, col))
	}
	return out
}

func describeNumeric(col string, xs []float64) models.ColumnSummary {
	s := models.ColumnSummary{Column: col, Count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	sorted := analytics.Sorted(xs)
	std := math.NaN()
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}
	s.Mean = num(stat.Mean(xs, nil))
	s.Std = num(std)
	s.Min = num(sorted[0])
	s.P25 = num(analytics.Quantile(sorted, 0.25))
	s.P50 = num(analytics.Quantile(sorted, 0.5))
	s.P75 = num(analytics.Quantile(sorted, 0.75))
	s.Max = num(sorted[len(sorted)-1])
	return s
}

func describeText(ds *models.Dataset, col string) models.ColumnSummary {
	counts := map[string]int{}
	s := models.ColumnSummary{Column: col}
	for i := range ds.Records {
		v, ok := ds.Value(i, col)
		if !ok {
			continue
		}
		s.Count++
		counts[v]++
	}
	unique := len(counts)
	s.Unique = &unique
	if unique == 0 {
		return s
	}

	labels := make([]string, 0, unique)
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	top, freq := labels[0], counts[labels[0]]
	s.Top, s.Freq = &top, &freq
	return s
}

// Quality reports shape, empty cells per column and exact duplicate rows.
func Quality(ds *models.Dataset) models.DataQuality {
	q := models.DataQuality{Rows: ds.Len(), Columns: len(ds.Header), Missing: make([]models.ColumnCount, 0, len(ds.Header))}
	for _, col := range ds.Header {
		missing := 0
		for i := range ds.Records {
			if _, ok := ds.Value(i, col); !ok {
				missing++
			}
		}
		q.Missing = append(q.Missing, models.ColumnCount{Column: col, Count: missing})
	}

	seen := make(map[string]struct{}, ds.Len())
	var buf []byte
	for _, r := range ds.Records {
		buf = buf[:0]
		for _, cell := range r.Raw {
			buf = strconv.AppendQuote(buf, cell)
		}
		key := string(buf)
		if _, dup := seen[key]; dup {
			q.Duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return q
}

func num(v float64) *models.Number {
	n := models.Number(v)
	return &n
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

package features

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/analytics"
)

const (
	SortMetric = "metric"
	SortLabel  = "label"

	// MissingLabel stands in for empty cells when counting values.
	MissingLabel = "(missing)"
)

// CategoryBars aggregates a label column for a bar chart. Counting includes
// missing labels; sum and mean group only labelled rows.
func CategoryBars(ds *models.Dataset, column, agg string, topN int, sortBy string) (models.CategoryBars, error) {
	if !slices.Contains(models.LabelColumns, column) {
		return models.CategoryBars{}, fmt.Errorf("%q: %w", column, models.ErrUnknownColumn)
	}
	required := []string{column}
	if agg != MetricCount {
		required = append(required, models.ColAmount)
	}
	if err := ds.Require(required...); err != nil {
		return models.CategoryBars{}, err
	}

	out := models.CategoryBars{Column: column, Agg: agg, Sort: sortBy}
	var bars []models.Bar
	switch agg {
	case MetricCount:
		out.Title, out.YLabel = "Distribution of "+column, "Count"
		bars = countBars(ds, column)
	case MetricSum, MetricMean:
		out.Title, out.YLabel = "Sum of amount by "+column, "Sum of amount"
		if agg == MetricMean {
			out.Title, out.YLabel = "Mean amount by "+column, "Mean amount"
		}
		for _, g := range analytics.GroupBy(ds, column) {
			v := g.Total.InexactFloat64()
			if agg == MetricMean {
				v = g.Mean()
			}
			bars = append(bars, models.Bar{Label: g.Label, Value: models.Number(v)})
		}
	default:
		return models.CategoryBars{}, fmt.Errorf("unknown aggregation %q", agg)
	}

	SortBars(bars, sortBy)
	if topN > 0 && len(bars) > topN {
		bars = bars[:topN]
	}
	if bars == nil {
		bars = []models.Bar{}
	}
	out.Bars = bars
	return out, nil
}

func countBars(ds *models.Dataset, column string) []models.Bar {
	counts := map[string]int{}
	var order []string
	for i := range ds.Records {
		label, ok := ds.Value(i, column)
		if !ok {
			label = MissingLabel
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	bars := make([]models.Bar, 0, len(order))
	for _, l := range order {
		bars = append(bars, models.Bar{Label: l, Value: models.Number(counts[l])})
	}
	return bars
}

// SortBars orders by label A-Z, or by value descending with undefined values
// last and ties broken by label.
func SortBars(bars []models.Bar, sortBy string) {
	sort.SliceStable(bars, func(i, j int) bool {
		if sortBy == SortLabel {
			return bars[i].Label < bars[j].Label
		}
		vi, vj := float64(bars[i].Value), float64(bars[j].Value)
		ni, nj := math.IsNaN(vi), math.IsNaN(vj)
		switch {
		case ni != nj:
			return nj
		case !ni && vi != vj:
			return vi > vj
		}
		return bars[i].Label < bars[j].Label
	})
}

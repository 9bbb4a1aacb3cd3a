package analytics

import (
	"sort"

	"FinDash/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Group aggregates the rows sharing one label. Rows with a missing label
// form no group; rows with a missing amount count but add nothing to Total.
type Group struct {
	Label      string
	Rows       int
	AmountRows int
	Total      decimal.Decimal
}

// Mean is NaN when no row in the group has an amount.
func (g Group) Mean() float64 {
	if g.AmountRows == 0 {
		return nanValue
	}
	return g.Total.Div(decimal.NewFromInt(int64(g.AmountRows))).InexactFloat64()
}

// GroupBy aggregates ds by column. Groups come back in first-seen order.
func GroupBy(ds *models.Dataset, column string) []Group {
	pos := map[string]int{}
	var groups []Group
	for i, r := range ds.Records {
		label, ok := ds.Value(i, column)
		if !ok {
			continue
		}
		gi, seen := pos[label]
		if !seen {
			gi = len(groups)
			pos[label] = gi
			groups = append(groups, Group{Label: label, Total: decimal.Zero})
		}
		g := &groups[gi]
		g.Rows++
		if r.HasAmount {
			g.AmountRows++
			g.Total = g.Total.Add(decimal.NewFromFloat(r.Amount))
		}
	}
	return groups
}

// SortByTotal orders groups by Total descending, then label ascending.
func SortByTotal(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Label < groups[j].Label
	})
}

// SortByRows orders groups by row count descending, then label ascending.
func SortByRows(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Rows != groups[j].Rows {
			return groups[i].Rows > groups[j].Rows
		}
		return groups[i].Label < groups[j].Label
	})
}

// SumAmounts adds every non-missing amount exactly.
func SumAmounts(ds *models.Dataset) decimal.Decimal {
	total := decimal.Zero
	for _, r := range ds.Records {
		if r.HasAmount {
			total = total.Add(decimal.NewFromFloat(r.Amount))
		}
	}
	return total
}

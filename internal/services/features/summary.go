package features

import (
	"math"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/analytics"
	"FinDash/pkg/util"

	"github.com/shopspring/decimal"
)

// Summary computes the headline metrics. Total is 0 and mean/median are NaN
// when no amount parses.
func Summary(ds *models.Dataset) models.Summary {
	amounts := ds.Amounts()
	total := analytics.SumAmounts(ds)

	mean, median := math.NaN(), math.NaN()
	if len(amounts) > 0 {
		mean = total.Div(decimal.NewFromInt(int64(len(amounts)))).InexactFloat64()
		median = analytics.Quantile(analytics.Sorted(amounts), 0.5)
	}

	return models.Summary{
		Transactions:   ds.Len(),
		TotalAmount:    models.Number(total.InexactFloat64()),
		AverageAmount:  models.Number(mean),
		MedianAmount:   models.Number(median),
		TransactionsFm: util.FormatCount(ds.Len()),
		TotalFm:        util.FormatAmount(total.InexactFloat64()),
		AverageFm:      util.FormatAmount(mean),
		MedianFm:       util.FormatAmount(median),
	}
}

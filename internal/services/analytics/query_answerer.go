package analytics

import (
	"fmt"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	domsvc "FinDash/internal/domain/service"
	"FinDash/pkg/util"

	"github.com/shopspring/decimal"
)

const (
	RuleTotalSpend    = "total_spend"
	RuleCount         = "count"
	RuleTopMerchants  = "top_merchants"
	RuleTopCategories = "top_categories"
	RulePaymentMix    = "payment_mix"
	RuleOutliers      = "outliers"
	RuleDateRange     = "date_range"
	RuleFallback      = "fallback"
)

// FallbackText is returned verbatim when no rule matches.
const FallbackText = "I can help with: total spend, counts, top merchants/categories, spend by payment mix, outliers, and date range."

type rule struct {
	name   string
	match  func(q string) bool
	answer func(q string, ds *models.Dataset) string
}

// KeywordAnswerer evaluates an ordered list of keyword rules against the
// lower-cased question; the first match answers.
type KeywordAnswerer struct {
	detector domsvc.OutlierDetector
	rules    []rule
}

func NewQueryAnswerer(detector domsvc.OutlierDetector) *KeywordAnswerer {
	a := &KeywordAnswerer{detector: detector}
	a.rules = []rule{
		{RuleTotalSpend, allOf(has("total"), anyOf(has("spend"), has("amount"))), a.totalSpend},
		{RuleCount, anyOf(has("how many"), has("count")), a.count},
		{RuleTopMerchants, allOf(has("top"), has("merchant")), a.topBy(models.ColMerchant, "🏪 **Top merchants by spend:**")},
		{RuleTopCategories, allOf(has("top"), has("categories")), a.topBy(models.ColCategory, "📂 **Top categories by spend:**")},
		{RulePaymentMix, allOf(has("payment"), anyOf(has("mix"), has("share"), has("distribution"))), a.paymentMix},
		{RuleOutliers, has("outlier"), a.outliers},
		{RuleDateRange, has("date range"), a.dateRange},
	}
	return a
}

var _ domsvc.QueryAnswerer = (*KeywordAnswerer)(nil)

// Respond picks the first matching rule. It never fails; missing columns
// produce an explanatory answer instead.
func (a *KeywordAnswerer) Respond(question string, ds *models.Dataset) models.Answer {
	q := strings.ToLower(question)
	for _, r := range a.rules {
		if r.match(q) {
			return models.Answer{Rule: r.name, Text: r.answer(q, ds)}
		}
	}
	return models.Answer{Rule: RuleFallback, Text: FallbackText}
}

// Answer returns only the reply text.
func (a *KeywordAnswerer) Answer(question string, ds *models.Dataset) string {
	return a.Respond(question, ds).Text
}

func (a *KeywordAnswerer) totalSpend(_ string, ds *models.Dataset) string {
	if msg, ok := requireColumns(ds, models.ColAmount); !ok {
		return msg
	}
	total := SumAmounts(ds).InexactFloat64()
	return fmt.Sprintf("💰 Total spend is **%s**.", util.FormatAmount(total))
}

func (a *KeywordAnswerer) count(_ string, ds *models.Dataset) string {
	return fmt.Sprintf("📊 Number of transactions: **%s**.", util.FormatCount(ds.Len()))
}

func (a *KeywordAnswerer) topBy(column, title string) func(string, *models.Dataset) string {
	return func(q string, ds *models.Dataset) string {
		if msg, ok := requireColumns(ds, column, models.ColAmount); !ok {
			return msg
		}
		n := 5
		if strings.Contains(q, "10") {
			n = 10
		}

		groups := GroupBy(ds, column)
		SortByTotal(groups)
		if len(groups) > n {
			groups = groups[:n]
		}

		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{g.Label, util.FormatAmount(g.Total.InexactFloat64())})
		}
		return title + "\n\n" + markdownTable([]mdColumn{{title: column}, {title: "total_amount", right: true}}, rows)
	}
}

func (a *KeywordAnswerer) paymentMix(_ string, ds *models.Dataset) string {
	if msg, ok := requireColumns(ds, models.ColPaymentMethod); !ok {
		return msg
	}
	groups := GroupBy(ds, models.ColPaymentMethod)
	SortByRows(groups)

	var labelled int
	for _, g := range groups {
		labelled += g.Rows
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Label, Percent(g.Rows, labelled).StringFixed(2)})
	}
	return "💳 **Payment mix (% of transactions):**\n\n" +
		markdownTable([]mdColumn{{title: models.ColPaymentMethod}, {title: "%", right: true}}, rows)
}

func (a *KeywordAnswerer) outliers(_ string, ds *models.Dataset) string {
	if msg, ok := requireColumns(ds, models.ColAmount); !ok {
		return msg
	}
	res, err := a.detector.Detect(ds, models.OutlierParams{K: models.DefaultMultiplier})
	if err != nil {
		return "⚠️ Outlier summary is not available."
	}
	return fmt.Sprintf("⚠️ There are **%d** outlier transactions (IQR rule), totaling **%s**.",
		res.Count, util.FormatAmount(res.Total))
}

func (a *KeywordAnswerer) dateRange(_ string, ds *models.Dataset) string {
	if msg, ok := requireColumns(ds, models.ColDate); !ok {
		return msg
	}
	lo, hi, ok := DateBounds(ds)
	if !ok {
		return "🗓 Date range: not available (no valid dates)."
	}
	return fmt.Sprintf("🗓 Date range: **%s → %s**.", util.FormatDate(lo), util.FormatDate(hi))
}

// DateBounds returns the earliest and latest parsed dates.
func DateBounds(ds *models.Dataset) (lo, hi time.Time, ok bool) {
	for _, r := range ds.Records {
		if !r.HasDate {
			continue
		}
		if !ok || r.Date.Before(lo) {
			lo = r.Date
		}
		if !ok || r.Date.After(hi) {
			hi = r.Date
		}
		ok = true
	}
	return lo, hi, ok
}

// Percent returns part/whole*100 rounded to two decimals; zero when whole is 0.
func Percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(whole)), 2)
}

func requireColumns(ds *models.Dataset, cols ...string) (string, bool) {
	missing := ds.MissingColumns(cols...)
	if len(missing) == 0 {
		return "", true
	}
	quoted := make([]string, len(missing))
	for i, c := range missing {
		quoted[i] = "`" + c + "`"
	}
	return fmt.Sprintf("I can't find %s.", strings.Join(quoted, " or ")), false
}

func has(word string) func(string) bool {
	return func(q string) bool { return strings.Contains(q, word) }
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if !p(q) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if p(q) {
				return true
			}
		}
		return false
	}
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// Source column names.
const (
	ColID              = "id"
	ColAmount          = "amount"
	ColDate            = "date"
	ColCategory        = "category"
	ColMerchant        = "merchant"
	ColPaymentMethod   = "payment_method"
	ColAccountType     = "account_type"
	ColTransactionType = "transaction_type"
)

// LabelColumns are the free-text columns that can be grouped on.
var LabelColumns = []string{ColCategory, ColMerchant, ColPaymentMethod, ColAccountType, ColTransactionType}

// Transaction is one source row after parse-or-missing coercion. Raw keeps
// the original cells in header order.
type Transaction struct {
	Row int // zero-based position in the source file, header excluded

	ID              string
	Amount          float64
	HasAmount       bool
	Date            time.Time
	HasDate         bool
	Category        string
	Merchant        string
	PaymentMethod   string
	AccountType     string
	TransactionType string

	Raw []string
}

// Dataset is the immutable in-memory table every component reads from.
type Dataset struct {
	Source  string
	Header  []string
	Records []Transaction

	index map[string]int
}

// NewDataset indexes header for by-name access. The first occurrence wins
// for duplicate column names.
func NewDataset(source string, header []string, records []Transaction) *Dataset {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return &Dataset{Source: source, Header: header, Records: records, index: idx}
}

// Len is nil-safe.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

func (d *Dataset) ColumnIndex(name string) (int, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.index[name]
	return i, ok
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.ColumnIndex(name)
	return ok
}

// MissingColumns returns the subset of names absent from the header, in the
// order asked.
func (d *Dataset) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !d.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Require returns a *MissingColumnsError when any of names is absent.
func (d *Dataset) Require(names ...string) error {
	if missing := d.MissingColumns(names...); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Value returns the trimmed cell of row i for column. ok is false when the
// column is absent or the cell is empty.
func (d *Dataset) Value(i int, column string) (string, bool) {
	ci, ok := d.ColumnIndex(column)
	if !ok || i < 0 || i >= len(d.Records) {
		return "", false
	}
	raw := d.Records[i].Raw
	if ci >= len(raw) {
		return "", false
	}
	v := strings.TrimSpace(raw[ci])
	return v, v != ""
}

// Amounts returns the non-missing amounts in row order.
func (d *Dataset) Amounts() []float64 {
	if d == nil {
		return nil
	}
	out := make([]float64, 0, len(d.Records))
	for _, r := range d.Records {
		if r.HasAmount {
			out = append(out, r.Amount)
		}
	}
	return out
}

// Subset returns a dataset sharing the header with only the given rows.
func (d *Dataset) Subset(rows []int) *Dataset {
	recs := make([]Transaction, 0, len(rows))
	for _, i := range rows {
		recs = append(recs, d.Records[i])
	}
	return NewDataset(d.Source, d.Header, recs)
}

// MissingColumnsError reports required columns absent from the dataset.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Columns, ", "))
}

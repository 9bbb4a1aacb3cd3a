package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
	"FinDash/pkg/util"
)

const utf8BOM = "\ufeff"

// CSVDataset loads the transactions file and writes row subsets back in the
// same format.
type CSVDataset struct {
	path string
}

// NewCSVDataset creates a CSV-backed dataset loader.
func NewCSVDataset(path string) *CSVDataset {
	return &CSVDataset{path: path}
}

var (
	_ repository.DatasetLoader   = (*CSVDataset)(nil)
	_ repository.DatasetExporter = (*CSVDataset)(nil)
)

func (s *CSVDataset) Load(ctx context.Context) (*models.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	ds, err := ParseCSV(ctx, f, s.path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", s.path, err)
	}
	return ds, nil
}

// Export writes the header and the given rows using their original cells.
func (s *CSVDataset) Export(w io.Writer, ds *models.Dataset, rows []int) error {
	return WriteCSV(w, ds, rows)
}

// ParseCSV reads a header line followed by records. Short records are padded
// with empty cells; records longer than the header are rejected. Amount and
// date cells that do not parse are kept as missing.
func ParseCSV(ctx context.Context, r io.Reader, source string) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = normalizeHeader(header)

	ds := models.NewDataset(source, header, nil)
	cols := newColumnMap(ds)

	var records []models.Transaction
	for row := 0; ; row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", row+1, len(header), len(rec))
		}
		raw := make([]string, len(header))
		copy(raw, rec)
		records = append(records, cols.transaction(row, raw))
	}

	return models.NewDataset(source, header, records), nil
}

// WriteCSV writes ds.Header and then rows in the given order.
func WriteCSV(w io.Writer, ds *models.Dataset, rows []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, i := range rows {
		if i < 0 || i >= ds.Len() {
			return fmt.Errorf("row %d out of range", i)
		}
		if err := cw.Write(ds.Records[i].Raw); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, name := range h {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		out[i] = strings.TrimSpace(name)
	}
	return out
}

// columnMap resolves well-known columns once per file; -1 means absent.
type columnMap struct {
	id, amount, date, category, merchant, payment, account, txType int
}

func newColumnMap(ds *models.Dataset) columnMap {
	pos := func(name string) int {
		if i, ok := ds.ColumnIndex(name); ok {
			return i
		}
		return -1
	}
	return columnMap{
		id:       pos(models.ColID),
		amount:   pos(models.ColAmount),
		date:     pos(models.ColDate),
		category: pos(models.ColCategory),
		merchant: pos(models.ColMerchant),
		payment:  pos(models.ColPaymentMethod),
		account:  pos(models.ColAccountType),
		txType:   pos(models.ColTransactionType),
	}
}

func (m columnMap) transaction(row int, raw []string) models.Transaction {
	cell := func(i int) string {
		if i < 0 {
			return ""
		}
		return strings.TrimSpace(raw[i])
	}

	t := models.Transaction{
		Row:             row,
		ID:              cell(m.id),
		Category:        cell(m.category),
		Merchant:        cell(m.merchant),
		PaymentMethod:   cell(m.payment),
		AccountType:     cell(m.account),
		TransactionType: cell(m.txType),
		Raw:             raw,
	}
	t.Amount, t.HasAmount = util.ParseAmount(cell(m.amount))
	t.Date, t.HasDate = util.ParseDate(cell(m.date))
	return t
}

package analytics

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"FinDash/internal/domain/models"
	"FinDash/internal/repository"

	"github.com/stretchr/testify/require"
)

const fullHeader = "id,date,amount,category,merchant,payment_method,account_type,transaction_type"

func parseDataset(t *testing.T, csv string) *models.Dataset {
	t.Helper()
	ds, err := repository.ParseCSV(context.Background(), strings.NewReader(csv), "test")
	require.NoError(t, err)
	return ds
}

// amountsDataset builds a dataset with one row per amount cell.
func amountsDataset(t *testing.T, cells ...string) *models.Dataset {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,amount\n")
	for i, c := range cells {
		fmt.Fprintf(&b, "%d,%s\n", i+1, c)
	}
	return parseDataset(t, b.String())
}

func floats(xs ...float64) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf("%g", x)
	}
	return out
}

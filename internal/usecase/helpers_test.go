package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"FinDash/internal/domain/models"
	"FinDash/internal/repository"

	"github.com/stretchr/testify/require"
)

const txCSV = "id,date,amount,category,merchant,payment_method\n" +
	"1,2024-01-05,10,Food,Cafe,Card\n" +
	"2,2024-01-06,10,Food,Cafe,Cash\n" +
	"3,2024-01-20,10,Travel,Air,Card\n" +
	"4,2024-02-02,10,Food,Deli,Card\n" +
	"5,2024-02-10,10,Food,Deli,Card\n" +
	"6,2024-02-11,10,Travel,Air,Cash\n" +
	"7,2024-02-15,10,Food,Cafe,Card\n" +
	"8,2024-03-01,10,Food,Cafe,Card\n" +
	"9,2024-03-02,10,Travel,Air,Card\n" +
	"10,2024-03-03,1000,Travel,Big,Card\n"

func loadDataset(t *testing.T, csv string) *models.Dataset {
	t.Helper()
	ds, err := repository.ParseCSV(context.Background(), strings.NewReader(csv), "test")
	require.NoError(t, err)
	return ds
}

type fakeMetrics struct {
	mu       sync.Mutex
	queries  []string
	errors   []string
	outliers []int
	sessions int
	latency  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{latency: map[string]int{}}
}

func (f *fakeMetrics) RecordQuery(rule string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, rule)
}

func (f *fakeMetrics) RecordOutlierRun(flagged int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outliers = append(f.outliers, flagged)
}

func (f *fakeMetrics) RecordDatasetRows(int) {}

func (f *fakeMetrics) RecordSessionCreated() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions++
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, kind)
}

func (f *fakeMetrics) RecordLatency(op string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency[op]++
}

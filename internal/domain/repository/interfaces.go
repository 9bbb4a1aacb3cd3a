package repository

import (
	"context"
	"io"

	"FinDash/internal/domain/models"
)

// DatasetLoader produces the in-memory dataset. A failure is fatal.
type DatasetLoader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// DatasetExporter writes rows back in the source tabular format.
type DatasetExporter interface {
	Export(w io.Writer, ds *models.Dataset, rows []int) error
}

// SessionStore keeps chat sessions isolated by ID.
type SessionStore interface {
	Create(ctx context.Context, s *models.ChatSession) error
	Get(ctx context.Context, id string) (*models.ChatSession, error)
	// Append adds msgs atomically in order and returns the updated session.
	Append(ctx context.Context, id string, msgs ...models.ChatMessage) (*models.ChatSession, error)
}

type Metrics interface {
	RecordQuery(rule string)
	RecordOutlierRun(flagged int)
	RecordDatasetRows(n int)
	RecordSessionCreated()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

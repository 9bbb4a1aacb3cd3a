package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	dsvc "FinDash/internal/domain/service"

	"github.com/google/uuid"
)

// Chat manages question/answer sessions. The dataset is shared read-only;
// every history lives in the session store under its own ID.
type Chat struct {
	ds       *models.Dataset
	store    drepo.SessionStore
	answerer dsvc.QueryAnswerer
	metrics  drepo.Metrics
	now      func() time.Time
}

// NewChat creates a new Chat instance.
func NewChat(
	ds *models.Dataset,
	store drepo.SessionStore,
	answerer dsvc.QueryAnswerer,
	metrics drepo.Metrics,
) *Chat {
	return &Chat{
		ds:       ds,
		store:    store,
		answerer: answerer,
		metrics:  metrics,
		now:      time.Now,
	}
}

// CreateSession starts a session seeded with the greeting.
func (c *Chat) CreateSession(ctx context.Context) (*models.ChatSession, error) {
	now := c.now().UTC()
	s := &models.ChatSession{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		History: []models.ChatMessage{
			{Role: models.RoleAssistant, Content: models.ChatGreeting, Timestamp: now},
		},
	}
	if err := c.store.Create(ctx, s); err != nil {
		c.metrics.RecordError("chat_create")
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.metrics.RecordSessionCreated()
	return s, nil
}

// History returns the session's messages in order.
func (c *Chat) History(ctx context.Context, id string) (*models.ChatSession, error) {
	s, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

// Send answers content and appends the user entry followed by the reply.
func (c *Chat) Send(ctx context.Context, id, content string) (*models.ChatReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.ErrEmptyMessage
	}

	start := time.Now()
	ans := c.answerer.Respond(content, c.ds)
	now := c.now().UTC()
	reply := models.ChatMessage{Role: models.RoleAssistant, Content: ans.Text, Timestamp: now}

	s, err := c.store.Append(ctx, id,
		models.ChatMessage{Role: models.RoleUser, Content: content, Timestamp: now},
		reply,
	)
	if err != nil {
		c.metrics.RecordError("chat_send")
		return nil, fmt.Errorf("send to session %s: %w", id, err)
	}

	c.metrics.RecordQuery(ans.Rule)
	c.metrics.RecordLatency("chat", time.Since(start).Seconds())
	return &models.ChatReply{
		SessionID: s.ID,
		Rule:      ans.Rule,
		Reply:     reply,
		History:   s.History,
	}, nil
}

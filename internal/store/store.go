package store

import (
	"context"
	"errors"

	"github.com/studyloop/quiz-service/internal/models"
)

// ErrNotFound is returned when no hand-off entry exists for the key.
var ErrNotFound = errors.New("hand-off entry not found")

// HandoffStore is the ephemeral key-value hand-off between the study, quiz and
// result stages. At most one document and one result are live per session;
// both are cleared when the user returns home or finishes reviewing. This is
// not a queryable store and nothing here outlives the session.
type HandoffStore interface {
	PutDocument(ctx context.Context, sessionID, content string) error
	GetDocument(ctx context.Context, sessionID string) (string, error)
	PutResult(ctx context.Context, sessionID string, result *models.Result) error
	GetResult(ctx context.Context, sessionID string) (*models.Result, error)
	Clear(ctx context.Context, sessionID string) error
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/quiz-service/internal/events"
	"github.com/studyloop/quiz-service/internal/models"
	"github.com/studyloop/quiz-service/internal/session"
	"github.com/studyloop/quiz-service/internal/store"
)

// SessionService owns the registry of live quiz sessions and bridges the HTTP
// surface to the session state machine, the hand-off store and the event
// publisher. Each browser tab owns exactly one session, addressed by id.
type SessionService interface {
	Create(ctx context.Context, content string) (session.Snapshot, error)
	Get(id string) (session.Snapshot, error)
	SubmitAnswer(id, questionID string, answer models.AnswerValue) (session.Snapshot, error)
	Next(ctx context.Context, id string) (session.Snapshot, error)
	Previous(id string) (session.Snapshot, error)
	Skip(ctx context.Context, id string) (session.Snapshot, error)
	Finish(ctx context.Context, id string) (session.Snapshot, error)
	Retry(ctx context.Context, id string) (session.Snapshot, error)
	TryAgain(id string) (session.Snapshot, error)
	Result(ctx context.Context, id string) (*models.Result, error)
	Document(ctx context.Context, id string) (string, error)
	Discard(ctx context.Context, id string) error
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	gen       session.Generator
	eval      session.Evaluator
	store     store.HandoffStore
	publisher events.Publisher
	logger    *slog.Logger
	timeLimit time.Duration
}

func NewSessionService(
	gen session.Generator,
	eval session.Evaluator,
	handoff store.HandoffStore,
	publisher events.Publisher,
	logger *slog.Logger,
	timeLimit time.Duration,
) SessionService {
	return &sessionService{
		sessions:  make(map[string]*session.Session),
		gen:       gen,
		eval:      eval,
		store:     handoff,
		publisher: publisher,
		logger:    logger,
		timeLimit: timeLimit,
	}
}

// Create registers a new session for the document text, writes the hand-off
// copy, and issues quiz generation. A generation failure leaves the session in
// its error state with retry offered; it is not an error of this call.
func (s *sessionService) Create(ctx context.Context, content string) (session.Snapshot, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return session.Snapshot{}, ErrContentRequired
	}

	id := uuid.New().String()
	if err := s.store.PutDocument(ctx, id, content); err != nil {
		return session.Snapshot{}, err
	}

	sess := session.New(id, content, s.gen, s.eval, session.Config{
		TimeLimit: s.timeLimit,
		Logger:    s.logger,
		Observer:  s,
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("Creating quiz session", "session_id", id, "content_length", len(content))
	err := sess.Start(ctx)
	return s.snapshotAfter(sess, err)
}

func (s *sessionService) Get(id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) SubmitAnswer(id, questionID string, answer models.AnswerValue) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := sess.SubmitAnswer(questionID, answer); err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) Next(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.snapshotAfter(sess, sess.Next(ctx))
}

func (s *sessionService) Previous(id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := sess.Previous(); err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) Skip(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.snapshotAfter(sess, sess.Skip(ctx))
}

func (s *sessionService) Finish(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.snapshotAfter(sess, sess.Finish(ctx))
}

func (s *sessionService) Retry(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.snapshotAfter(sess, sess.Retry(ctx))
}

func (s *sessionService) TryAgain(id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := sess.TryAgain(); err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Result serves the results view, preferring the hand-off copy so a completed
// result survives the session being discarded from the registry.
func (s *sessionService) Result(ctx context.Context, id string) (*models.Result, error) {
	result, err := s.store.GetResult(ctx, id)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	sess, err := s.lookup(id)
	if err != nil {
		return nil, ErrResultNotFound
	}
	result, err = sess.Result()
	if err != nil {
		return nil, ErrResultNotFound
	}
	return result, nil
}

// Document returns the hand-off copy of the study material the session was
// created from.
func (s *sessionService) Document(ctx context.Context, id string) (string, error) {
	content, err := s.store.GetDocument(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrSessionNotFound
	}
	return content, err
}

// Discard ends the session and clears both hand-off entries; the user returned
// home or finished reviewing.
func (s *sessionService) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Close()
	}
	if err := s.store.Clear(ctx, id); err != nil {
		s.logger.Warn("failed to clear hand-off entries", "session_id", id, "error", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// SessionEvent implements session.Observer. It is invoked with the session
// lock held, so publishing and result persistence happen off this goroutine.
func (s *sessionService) SessionEvent(sessionID, event string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if event == session.EventCompleted {
			s.persistResult(ctx, sessionID)
		}

		evt := &events.SessionEvent{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Type:      event,
			Timestamp: time.Now(),
			Source:    events.Source,
		}
		if err := s.publisher.PublishSessionEvent(ctx, evt); err != nil {
			s.logger.Error("failed to publish session event",
				"session_id", sessionID,
				"event_type", event,
				"error", err)
		}
	}()
}

func (s *sessionService) persistResult(ctx context.Context, sessionID string) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return
	}
	result, err := sess.Result()
	if err != nil {
		return
	}
	if err := s.store.PutResult(ctx, sessionID, result); err != nil {
		s.logger.Error("failed to persist result hand-off", "session_id", sessionID, "error", err)
	}
}

func (s *sessionService) lookup(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// snapshotAfter folds collaborator failures into the snapshot: the session has
// already recorded the failure with retry offered, which is what the caller
// renders. Flow errors (wrong state, unknown session) surface as errors.
func (s *sessionService) snapshotAfter(sess *session.Session, err error) (session.Snapshot, error) {
	snap := sess.Snapshot()
	if err != nil && snap.Failure == nil {
		return session.Snapshot{}, err
	}
	return snap, nil
}

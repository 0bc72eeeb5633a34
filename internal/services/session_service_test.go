package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/quiz-service/internal/events"
	"github.com/studyloop/quiz-service/internal/models"
	"github.com/studyloop/quiz-service/internal/session"
	"github.com/studyloop/quiz-service/internal/store"
)

// ===== MOCKS =====

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateQuiz(ctx context.Context, content string) ([]models.Question, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) EvaluateQuiz(ctx context.Context, questions []models.Question, answers map[string]models.AnswerValue) (*models.Evaluation, error) {
	args := m.Called(ctx, questions, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Evaluation), args.Error(1)
}

// ===== FIXTURES =====

func sampleQuestions() []models.Question {
	return []models.Question{
		{ID: "q1", Question: "First?", Type: models.MultipleChoice, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		{ID: "q2", Question: "Second?", Type: models.MultipleChoice, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b"},
	}
}

func sampleEvaluation() *models.Evaluation {
	return &models.Evaluation{
		CorrectAnswers: 1,
		TotalQuestions: 2,
		Percentage:     50,
		QuestionFeedback: []models.QuestionFeedback{
			{Question: "First?", Correct: true},
			{Question: "Second?", Correct: false},
		},
	}
}

type serviceFixture struct {
	service   SessionService
	generator *MockGenerator
	evaluator *MockEvaluator
	handoff   store.HandoffStore
	publisher *events.MockPublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	generator := new(MockGenerator)
	evaluator := new(MockEvaluator)
	handoff := store.NewMemoryStore()
	publisher := events.NewMockPublisher()
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))

	return &serviceFixture{
		service:   NewSessionService(generator, evaluator, handoff, publisher, logger, 10*time.Minute),
		generator: generator,
		evaluator: evaluator,
		handoff:   handoff,
		publisher: publisher,
	}
}

func (f *serviceFixture) eventCount(eventType string) int {
	n := 0
	for _, e := range f.publisher.Events() {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// ===== TESTS =====

func TestSessionService_Create(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.On("GenerateQuiz", mock.Anything, "study material").Return(sampleQuestions(), nil)

	snapshot, err := f.service.Create(context.Background(), "study material")
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, session.StateRunning, snapshot.State)
	assert.Equal(t, 2, snapshot.TotalQuestions)

	// The document hand-off copy is written before generation.
	content, err := f.handoff.GetDocument(context.Background(), snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, "study material", content)

	assert.Eventually(t, func() bool {
		return f.eventCount(session.EventStarted) == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.generator.AssertExpectations(t)
}

func TestSessionService_Create_EmptyContent(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrContentRequired)
	f.generator.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything)
}

func TestSessionService_Create_GenerationFailureYieldsErrorState(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))

	// The collaborator failure is folded into the snapshot, not surfaced.
	snapshot, err := f.service.Create(context.Background(), "study material")
	require.NoError(t, err)
	assert.Equal(t, session.StateError, snapshot.State)
	require.NotNil(t, snapshot.Failure)
	assert.True(t, snapshot.Failure.Retryable)
}

func TestSessionService_UnknownSession(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, IsNotFound(err))

	_, err = f.service.Next(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_FullRun(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(), nil)
	f.evaluator.On("EvaluateQuiz", mock.Anything, mock.Anything, mock.Anything).Return(sampleEvaluation(), nil)

	created, err := f.service.Create(ctx, "study material")
	require.NoError(t, err)
	id := created.ID

	snapshot, err := f.service.SubmitAnswer(id, "q1", models.SingleAnswer("a"))
	require.NoError(t, err)
	assert.Equal(t, models.SingleAnswer("a"), snapshot.Answers["q1"])

	snapshot, err = f.service.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.QuestionIndex)

	snapshot, err = f.service.Finish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.StateComplete, snapshot.State)
	require.NotNil(t, snapshot.Result)
	assert.Equal(t, 50, snapshot.Result.Percentage)

	result, err := f.service.Result(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)

	// Completion persists the result hand-off copy and publishes the event.
	assert.Eventually(t, func() bool {
		_, err := f.handoff.GetResult(ctx, id)
		return err == nil && f.eventCount(session.EventCompleted) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionService_SubmitAnswer_UnknownQuestion(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(), nil)

	created, err := f.service.Create(context.Background(), "study material")
	require.NoError(t, err)

	_, err = f.service.SubmitAnswer(created.ID, "bogus", models.SingleAnswer("a"))
	assert.ErrorIs(t, err, session.ErrUnknownQuestion)
}

func TestSessionService_Result_PrefersHandoffCopy(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	// A result in the hand-off store is served even when no live session exists,
	// mirroring a results page opened after the quiz tab went away.
	stored := &models.Result{CorrectAnswers: 4, TotalQuestions: 5, Percentage: 80}
	require.NoError(t, f.handoff.PutResult(ctx, "gone-session", stored))

	result, err := f.service.Result(ctx, "gone-session")
	require.NoError(t, err)
	assert.Equal(t, 80, result.Percentage)
}

func TestSessionService_Discard(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(), nil)

	created, err := f.service.Create(ctx, "study material")
	require.NoError(t, err)

	require.NoError(t, f.service.Discard(ctx, created.ID))
	_, err = f.service.Get(created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Hand-off entries are gone too.
	_, err = f.handoff.GetDocument(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, f.service.Discard(ctx, created.ID), ErrSessionNotFound)
}

func TestSessionService_RetryAfterEvaluationFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(), nil)
	f.evaluator.On("EvaluateQuiz", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable")).Once()
	f.evaluator.On("EvaluateQuiz", mock.Anything, mock.Anything, mock.Anything).Return(sampleEvaluation(), nil).Once()

	created, err := f.service.Create(ctx, "study material")
	require.NoError(t, err)
	id := created.ID

	snapshot, err := f.service.Finish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.StateError, snapshot.State)

	snapshot, err = f.service.Retry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.StateComplete, snapshot.State)

	f.evaluator.AssertNumberOfCalls(t, "EvaluateQuiz", 2)
	f.generator.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}

func TestSessionService_TryAgain(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.generator.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleQuestions(), nil)
	f.evaluator.On("EvaluateQuiz", mock.Anything, mock.Anything, mock.Anything).Return(sampleEvaluation(), nil)

	created, err := f.service.Create(ctx, "study material")
	require.NoError(t, err)
	id := created.ID

	_, err = f.service.Finish(ctx, id)
	require.NoError(t, err)

	snapshot, err := f.service.TryAgain(id)
	require.NoError(t, err)
	assert.Equal(t, session.StateRunning, snapshot.State)
	assert.Empty(t, snapshot.Answers)
	assert.Equal(t, 2, snapshot.TotalQuestions)

	assert.Eventually(t, func() bool {
		return f.eventCount(session.EventRestarted) == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.generator.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/studyloop/quiz-service/internal/models"
)

// State is the lifecycle phase of a quiz session.
type State string

const (
	StateLoading    State = "loading"
	StateRunning    State = "running"
	StateEvaluating State = "evaluating"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Stage identifies which collaborator request a failure came from, so retry can
// re-issue exactly the operation that failed.
type Stage string

const (
	StageGeneration Stage = "generation"
	StageEvaluation Stage = "evaluation"
)

// Failure describes why a session entered the error state.
type Failure struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Lifecycle event names emitted to the observer.
const (
	EventStarted          = "session.started"
	EventCompleted        = "session.completed"
	EventTimedOut         = "session.timed_out"
	EventRestarted        = "session.restarted"
	EventGenerationFailed = "session.generation_failed"
	EventEvaluationFailed = "session.evaluation_failed"
)

var (
	ErrNotLoading      = errors.New("session is not awaiting quiz generation")
	ErrNotRunning      = errors.New("session is not running")
	ErrNotComplete     = errors.New("session is not complete")
	ErrNothingToRetry  = errors.New("session has no failed operation to retry")
	ErrUnknownQuestion = errors.New("question does not belong to this session")
	ErrRequestPending  = errors.New("a collaborator request is already outstanding")
)

// Generator produces an ordered question list from document text.
type Generator interface {
	GenerateQuiz(ctx context.Context, content string) ([]models.Question, error)
}

// Evaluator grades a finished question/answer set.
type Evaluator interface {
	EvaluateQuiz(ctx context.Context, questions []models.Question, answers map[string]models.AnswerValue) (*models.Evaluation, error)
}

// Observer receives lifecycle events. Calls are made with the session lock
// held; implementations must not call back into the session.
type Observer interface {
	SessionEvent(sessionID, event string)
}

// DefaultTimeLimit is the total time budget when none is configured.
const DefaultTimeLimit = 600 * time.Second

// Config carries the tunables for a session. Zero values fall back to sane
// defaults; Now is injectable for tests.
type Config struct {
	TimeLimit    time.Duration
	TickInterval time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
	Observer     Observer
}

// Session is the quiz session state machine. All state transitions funnel
// through its methods; the only other actor is the countdown timer, which is
// fenced by a generation token so a stale timer can never fire after the
// session has left the running state.
type Session struct {
	id   string
	gen  Generator
	eval Evaluator

	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	limit    time.Duration
	tick     time.Duration

	mu        sync.Mutex
	state     State
	content   string
	questions []models.Question
	index     int
	answers   map[string]models.AnswerValue
	times     map[string]time.Duration

	clockArmed        bool
	startedAt         time.Time
	questionStartedAt time.Time
	endedAt           time.Time
	endReason         string

	timer    *countdown
	timerGen int

	pending bool
	failure *Failure
	result  *models.Result
}

const (
	endReasonCompleted = "completed"
	endReasonTimeout   = "timeout"
)

// New creates a session in the loading state. Call Start to issue quiz
// generation for the given document content.
func New(id, content string, gen Generator, eval Evaluator, cfg Config) *Session {
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = DefaultTimeLimit
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		id:       id,
		gen:      gen,
		eval:     eval,
		logger:   cfg.Logger,
		observer: cfg.Observer,
		now:      cfg.Now,
		limit:    cfg.TimeLimit,
		tick:     cfg.TickInterval,
		state:    StateLoading,
		content:  content,
		answers:  make(map[string]models.AnswerValue),
		times:    make(map[string]time.Duration),
	}
}

func (s *Session) ID() string { return s.id }

// Start issues quiz generation and, on success, enters the running state with
// the returned question list. On failure the session moves to the error state
// with a retryable generation failure.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return ErrNotLoading
	}
	if s.pending {
		s.mu.Unlock()
		return ErrRequestPending
	}
	s.pending = true
	content := s.content
	s.mu.Unlock()

	questions, err := s.gen.GenerateQuiz(ctx, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		s.failure = &Failure{Stage: StageGeneration, Message: "Failed to generate quiz. Please try again.", Retryable: true}
		s.state = StateError
		s.logger.Error("quiz generation failed", "session_id", s.id, "error", err)
		s.emitLocked(EventGenerationFailed)
		return err
	}

	// A successful generation replaces any prior question list.
	s.questions = questions
	s.index = 0
	s.answers = make(map[string]models.AnswerValue)
	s.times = make(map[string]time.Duration)
	s.clockArmed = false
	s.failure = nil
	s.enterRunningLocked()
	s.logger.Info("quiz session started", "session_id", s.id, "questions", len(questions))
	s.emitLocked(EventStarted)
	return nil
}

// SubmitAnswer records the user's answer for a question without advancing the
// session. Resubmitting overwrites the prior answer. Input racing an
// auto-submit is dropped silently: once evaluation is underway the answer set
// is frozen.
func (s *Session) SubmitAnswer(questionID string, answer models.AnswerValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRunning:
	case StateEvaluating:
		return nil
	default:
		return ErrNotRunning
	}
	if !s.hasQuestionLocked(questionID) {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = answer
	return nil
}

// Next advances to the following question, or finishes the quiz when called on
// the last one. Time spent on the question being left is flushed either way.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if s.index < len(s.questions)-1 {
		s.flushLocked()
		s.index++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.finish(ctx, endReasonCompleted)
}

// Skip moves on without recording an answer.
func (s *Session) Skip(ctx context.Context) error {
	return s.Next(ctx)
}

// Previous steps back one question. Time is attributed to the question being
// left, same as Next.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	if s.index > 0 {
		s.flushLocked()
		s.index--
	}
	return nil
}

// Finish ends the quiz from the user's side regardless of position, following
// the same flush-and-evaluate path as Next on the last question.
func (s *Session) Finish(ctx context.Context) error {
	return s.finish(ctx, endReasonCompleted)
}

// Retry re-issues the operation that failed: generation failures re-enter
// loading and regenerate; evaluation failures re-grade the stored
// question/answer snapshot without regenerating anything.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateError || s.failure == nil {
		s.mu.Unlock()
		return ErrNothingToRetry
	}
	if s.failure.Stage == StageGeneration {
		s.state = StateLoading
		s.failure = nil
		s.mu.Unlock()
		return s.Start(ctx)
	}
	s.state = StateEvaluating
	s.failure = nil
	s.pending = true
	questions := s.questions
	answers := cloneAnswers(s.answers)
	s.mu.Unlock()

	eval, err := s.eval.EvaluateQuiz(ctx, questions, answers)
	return s.completeEvaluation(eval, err)
}

// TryAgain resets answers, timings, position and clock, and re-enters the
// running state with the already-loaded question set. No regeneration happens.
func (s *Session) TryAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete {
		return ErrNotComplete
	}
	s.index = 0
	s.answers = make(map[string]models.AnswerValue)
	s.times = make(map[string]time.Duration)
	s.result = nil
	s.failure = nil
	s.clockArmed = false
	s.enterRunningLocked()
	s.logger.Info("quiz session restarted", "session_id", s.id)
	s.emitLocked(EventRestarted)
	return nil
}

// Result returns the terminal result of a completed session.
func (s *Session) Result() (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete || s.result == nil {
		return nil, ErrNotComplete
	}
	return s.result, nil
}

// Close stops the timer. The session is unusable afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// finish performs the single flush-and-evaluate transition shared by the
// user-driven finish and the timer-driven auto-submit.
func (s *Session) finish(ctx context.Context, reason string) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.stopTimerLocked()
	s.flushLocked()
	s.endedAt = s.now()
	s.endReason = reason
	s.state = StateEvaluating
	s.pending = true
	questions := s.questions
	answers := cloneAnswers(s.answers)
	if reason == endReasonTimeout {
		s.emitLocked(EventTimedOut)
	}
	s.mu.Unlock()

	eval, err := s.eval.EvaluateQuiz(ctx, questions, answers)
	return s.completeEvaluation(eval, err)
}

func (s *Session) completeEvaluation(eval *models.Evaluation, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		s.failure = &Failure{Stage: StageEvaluation, Message: "Failed to evaluate quiz. Please try again.", Retryable: true}
		s.state = StateError
		s.logger.Error("quiz evaluation failed", "session_id", s.id, "error", err)
		s.emitLocked(EventEvaluationFailed)
		return err
	}

	result := BuildResult(eval, s.times, s.startedAt, s.endedAt, s.limit, s.questions)
	s.result = &result
	s.failure = nil
	s.state = StateComplete
	s.logger.Info("quiz session completed",
		"session_id", s.id,
		"score", result.Percentage,
		"end_reason", s.endReason)
	s.emitLocked(EventCompleted)
	return nil
}

// timeout is raised by the countdown when the budget hits zero. The generation
// token fences off stale timers; a timer from a previous run is a no-op.
func (s *Session) timeout(gen int) {
	s.mu.Lock()
	if gen != s.timerGen || s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.logger.Info("time limit reached, auto-submitting", "session_id", s.id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.finish(ctx, endReasonTimeout); err != nil && !errors.Is(err, ErrNotRunning) {
		s.logger.Error("auto-submit failed", "session_id", s.id, "error", err)
	}
}

// enterRunningLocked transitions into the running state, arming the clock and
// timer exactly once per run.
func (s *Session) enterRunningLocked() {
	s.state = StateRunning
	if !s.clockArmed {
		n := s.now()
		s.startedAt = n
		s.questionStartedAt = n
		s.clockArmed = true
	}
	s.startTimerLocked()
}

func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	gen := s.timerGen
	s.timer = newCountdown(s.limit, s.tick, s.now, nil, func() { s.timeout(gen) })
	s.timer.Start()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

// flushLocked commits the time spent on the active question and restarts the
// per-question clock. It must run exactly once at every point the active
// question changes: next, previous, timeout, and entry into evaluation.
func (s *Session) flushLocked() {
	if !s.clockArmed || s.index >= len(s.questions) {
		return
	}
	n := s.now()
	id := s.questions[s.index].ID
	s.times[id] += n.Sub(s.questionStartedAt)
	s.questionStartedAt = n
}

func (s *Session) hasQuestionLocked(questionID string) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

func (s *Session) emitLocked(event string) {
	if s.observer != nil {
		s.observer.SessionEvent(s.id, event)
	}
}

func cloneAnswers(answers map[string]models.AnswerValue) map[string]models.AnswerValue {
	clone := make(map[string]models.AnswerValue, len(answers))
	for k, v := range answers {
		clone[k] = v
	}
	return clone
}

// Snapshot is a read-only view of the session for callers outside the core.
type Snapshot struct {
	ID               string                        `json:"id"`
	State            State                         `json:"state"`
	QuestionIndex    int                           `json:"questionIndex"`
	TotalQuestions   int                           `json:"totalQuestions"`
	CurrentQuestion  *models.Question              `json:"currentQuestion,omitempty"`
	Answers          map[string]models.AnswerValue `json:"answers"`
	RemainingSeconds int                           `json:"remainingSeconds"`
	TimeLimitSeconds int                           `json:"timeLimitSeconds"`
	Failure          *Failure                      `json:"failure,omitempty"`
	Result           *models.Result                `json:"result,omitempty"`
}

// Snapshot returns the current session view. Remaining time is recomputed from
// the wall clock, not read from the ticking timer.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		State:            s.state,
		QuestionIndex:    s.index,
		TotalQuestions:   len(s.questions),
		Answers:          cloneAnswers(s.answers),
		TimeLimitSeconds: int(s.limit / time.Second),
		Failure:          s.failure,
		Result:           s.result,
	}
	if s.state == StateRunning && s.index < len(s.questions) {
		q := s.questions[s.index]
		snap.CurrentQuestion = &q
	}
	if s.clockArmed && s.state == StateRunning {
		remaining := s.limit - s.now().Sub(s.startedAt)
		if remaining < 0 {
			remaining = 0
		}
		snap.RemainingSeconds = int(remaining / time.Second)
	}
	return snap
}

// QuestionTimes returns a copy of the per-question accumulated time, in
// seconds, keyed by question identifier.
func (s *Session) QuestionTimes() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.times))
	for id, d := range s.times {
		out[id] = d.Seconds()
	}
	return out
}

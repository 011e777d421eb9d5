package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/quiz"
)

// SessionRepository persists the per-session cursor state (in-memory, Redis, etc).
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	Save(ctx context.Context, state domain.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (*quiz.QuestionBank, error)
}

// QuizService contains the quiz use cases shared by every shell.
type QuizService struct {
	sessions    SessionRepository
	banks       BankRepository
	logger      *zap.Logger
	defaultBank string
	now         func() time.Time
	newID       func() string
}

type Option func(*QuizService)

// WithDefaultBank sets the bank used when Start is called without one.
func WithDefaultBank(bankID string) Option {
	return func(s *QuizService) { s.defaultBank = bankID }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator replaces the UUID session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *QuizService) { s.newID = fn }
}

func NewQuizService(sessions SessionRepository, banks BankRepository, logger *zap.Logger, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:    sessions,
		banks:       banks,
		logger:      logger,
		defaultBank: quiz.GeographyBankID,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Start opens or resumes a session. An empty sessionID mints a new one; an
// empty bankID resumes the session's bank or falls back to the default bank.
// A saved bank that no longer exists is replaced by the default at index 0.
func (s *QuizService) Start(ctx context.Context, bankID, sessionID string) (domain.View, error) {
	if sessionID == "" {
		sessionID = s.newID()
	}

	state, err := s.sessions.Load(ctx, sessionID)
	resumed := err == nil
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.View{}, fmt.Errorf("load session: %w", err)
	}

	fromSaved := bankID == "" && state.BankID != ""
	if bankID == "" {
		bankID = state.BankID
	}
	if bankID == "" {
		bankID = s.defaultBank
	}

	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil && fromSaved && bankID != s.defaultBank && errors.Is(err, domain.ErrBankNotFound) {
		s.logger.Warn("saved bank is gone, falling back to default",
			zap.String("session_id", sessionID),
			zap.String("bank_id", bankID),
			zap.String("default_bank", s.defaultBank),
		)
		bank, err = s.banks.GetBank(ctx, s.defaultBank)
	}
	if err != nil {
		return domain.View{}, err
	}

	if resumed && state.BankID != bank.ID() {
		s.logger.Info("session switched bank",
			zap.String("session_id", sessionID),
			zap.String("from", state.BankID),
			zap.String("to", bank.ID()),
		)
		resumed = false
	}
	if !resumed {
		state = domain.SessionState{ID: sessionID, BankID: bank.ID()}
	}

	cursor := s.restore(bank, state)
	if err := s.save(ctx, sessionID, cursor); err != nil {
		return domain.View{}, err
	}

	s.logger.Debug("session started",
		zap.String("session_id", sessionID),
		zap.String("bank_id", bank.ID()),
		zap.Int("index", cursor.Current()),
		zap.Bool("resumed", resumed),
	)
	return viewOf(sessionID, cursor), nil
}

// Current returns the question the session is positioned on.
func (s *QuizService) Current(ctx context.Context, sessionID string) (domain.View, error) {
	cursor, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.View{}, err
	}
	return viewOf(sessionID, cursor), nil
}

// Handle dispatches one player event. Navigation moves and persists the
// cursor; answers are evaluated against the current question and leave the
// cursor where it is.
func (s *QuizService) Handle(ctx context.Context, sessionID string, event domain.Event) (domain.Outcome, error) {
	cursor, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.Outcome{}, err
	}

	outcome := domain.Outcome{Event: event}
	switch event {
	case domain.EventPrevious:
		cursor.Retreat()
	case domain.EventNext:
		cursor.Advance()
	case domain.EventSelectTrue, domain.EventSelectFalse:
		verdict := quiz.Evaluate(event.Answer(), cursor.Question().Answer)
		outcome.Verdict = &verdict
	default:
		return domain.Outcome{}, fmt.Errorf("%w: %v", domain.ErrUnknownEvent, event)
	}

	if !event.IsAnswer() {
		if err := s.save(ctx, sessionID, cursor); err != nil {
			return domain.Outcome{}, err
		}
	}

	outcome.View = viewOf(sessionID, cursor)
	if outcome.Verdict != nil {
		s.logger.Debug("answer evaluated",
			zap.String("session_id", sessionID),
			zap.Int("index", cursor.Current()),
			zap.Stringer("verdict", *outcome.Verdict),
		)
	}
	return outcome, nil
}

// End forgets the session's saved position.
func (s *QuizService) End(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *QuizService) open(ctx context.Context, sessionID string) (*quiz.Cursor, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bank, err := s.banks.GetBank(ctx, state.BankID)
	if err != nil {
		return nil, err
	}
	return s.restore(bank, state), nil
}

// restore rebuilds the cursor, resetting to the first question when the bank
// has shrunk below the saved index.
func (s *QuizService) restore(bank *quiz.QuestionBank, state domain.SessionState) *quiz.Cursor {
	cursor, err := quiz.RestoreCursor(bank, quiz.CursorState{Index: state.Index})
	if err != nil {
		s.logger.Warn("saved index no longer valid, restarting bank",
			zap.String("session_id", state.ID),
			zap.String("bank_id", bank.ID()),
			zap.Error(err),
		)
		return quiz.NewCursor(bank)
	}
	return cursor
}

func (s *QuizService) save(ctx context.Context, sessionID string, cursor *quiz.Cursor) error {
	state := domain.SessionState{
		ID:        sessionID,
		BankID:    cursor.Bank().ID(),
		Index:     cursor.State().Index,
		UpdatedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func viewOf(sessionID string, cursor *quiz.Cursor) domain.View {
	return domain.View{
		SessionID: sessionID,
		BankID:    cursor.Bank().ID(),
		Title:     cursor.Bank().Title(),
		Index:     cursor.Current(),
		Total:     cursor.Bank().Size(),
		Text:      cursor.Question().Text,
	}
}

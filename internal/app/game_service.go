package app

import (
	"context"
	"math"
	"time"

	"cricket-stats-game/internal/domain"
	"cricket-stats-game/internal/game"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Create(gameID string) *Session
	Get(gameID string) (*Session, bool)
	Delete(gameID string)
	// Release deletes gameID only while it still maps to session.
	Release(gameID string, session *Session)
}

// RosterRepository loads the roster for a challenge date (from cache/backing store).
type RosterRepository interface {
	GetRoster(ctx context.Context, date string) (domain.Challenge, error)
}

// GameService drives the question/answer loop for single-player daily challenges.
type GameService struct {
	sessions SessionRepository
	rosters  RosterRepository
	ranges   game.RangeModel
	now      func() time.Time
	newID    func() string
	logger   zerolog.Logger
}

// Option customizes a GameService.
type Option func(*GameService)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *GameService) { s.logger = logger }
}

// WithClock is used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

func WithRangeModel(ranges game.RangeModel) Option {
	return func(s *GameService) { s.ranges = ranges }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *GameService) { s.newID = newID }
}

func NewGameService(sessions SessionRepository, rosters RosterRepository, opts ...Option) *GameService {
	s := &GameService{
		sessions: sessions,
		rosters:  rosters,
		ranges:   game.DefaultRangeModel(),
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a new game for date ("" means today). An empty gameID gets a fresh id;
// an existing id is replaced wholesale.
func (s *GameService) Start(ctx context.Context, gameID, date string) (domain.GameState, error) {
	state, _, err := s.start(ctx, gameID, date)
	return state, err
}

// Open starts a game owned by one connection. The returned release func ends the game
// unless a later Start has already replaced it under the same id.
func (s *GameService) Open(ctx context.Context, gameID, date string) (domain.GameState, func(), error) {
	state, session, err := s.start(ctx, gameID, date)
	if err != nil {
		return domain.GameState{}, func() {}, err
	}
	release := func() {
		s.sessions.Release(state.GameID, session)
	}
	return state, release, nil
}

func (s *GameService) start(ctx context.Context, gameID, date string) (domain.GameState, *Session, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return domain.GameState{}, nil, err
	}

	challenge, err := s.rosters.GetRoster(ctx, date)
	if err != nil {
		return domain.GameState{}, nil, err
	}
	if len(challenge.Players) == 0 {
		return domain.GameState{}, nil, domain.ErrChallengeNotFound
	}

	if gameID == "" {
		gameID = s.newID()
	}
	session := s.sessions.Create(gameID)
	state, err := session.start(date, challenge.Players, s.ranges, s.logger)
	if err != nil {
		s.sessions.Release(gameID, session)
		return domain.GameState{}, nil, err
	}

	s.logger.Info().
		Str("gameId", gameID).
		Str("date", date).
		Int("players", len(challenge.Players)).
		Msg("game started")
	return state, session, nil
}

// Submit scores a guess against the current question and advances to the next one.
func (s *GameService) Submit(_ context.Context, gameID string, guess float64) (domain.AnswerResult, error) {
	if math.IsNaN(guess) || math.IsInf(guess, 0) || guess < 0 {
		return domain.AnswerResult{}, domain.ErrInvalidGuess
	}
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrSessionNotFound
	}

	result, err := session.submit(guess)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	s.logger.Debug().
		Str("gameId", gameID).
		Str("player", result.PlayerName).
		Float64("guess", guess).
		Float64("answer", result.CorrectAnswer).
		Int("points", result.Points).
		Msg("guess scored")
	if result.Complete {
		s.logger.Info().
			Str("gameId", gameID).
			Int("score", result.TotalScore).
			Msg("game complete")
	}
	return result, nil
}

// Restart resets the player pool and replays the same roster from the first question.
func (s *GameService) Restart(_ context.Context, gameID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	s.logger.Info().Str("gameId", gameID).Msg("game restarted")
	return session.restart()
}

// State returns the current snapshot of a game.
func (s *GameService) State(_ context.Context, gameID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	return session.State(), nil
}

// Summary aggregates the answers recorded so far.
func (s *GameService) Summary(_ context.Context, gameID string) (domain.GameSummary, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameSummary{}, domain.ErrSessionNotFound
	}
	return session.summary(), nil
}

// End drops a game session.
func (s *GameService) End(_ context.Context, gameID string) {
	s.sessions.Delete(gameID)
}

// ChallengeSize reports how many questions the date's challenge has.
func (s *GameService) ChallengeSize(ctx context.Context, date string) (int, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return 0, err
	}
	challenge, err := s.rosters.GetRoster(ctx, date)
	if err != nil {
		return 0, err
	}
	if len(challenge.Players) == 0 {
		return 0, domain.ErrChallengeNotFound
	}
	return len(challenge.Players), nil
}

func (s *GameService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().Format(domain.DateLayout), nil
	}
	if _, err := domain.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

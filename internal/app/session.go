package app

import (
	"sync"
	"time"

	"cricket-stats-game/internal/domain"
	"cricket-stats-game/internal/game"
	"github.com/rs/zerolog"
)

// Session is one player's game: the roster, its own player pool, and the answer history.
// len(answers) == cursor holds whenever the lock is released.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu         sync.Mutex
	date       string
	players    []domain.PlayerRecord
	factory    *game.QuestionFactory
	current    *domain.Question
	answers    []domain.AnswerRecord
	score      int
	cursor     int
	lastActive time.Time
	logger     zerolog.Logger
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return NewSessionWithClock(id, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:         id,
		createdAt:  created,
		now:        now,
		lastActive: created,
		logger:     zerolog.Nop(),
	}
}

// ID returns the game id.
func (s *Session) ID() string {
	return s.id
}

// LastActive reports when the session last changed.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) start(date string, players []domain.PlayerRecord, ranges game.RangeModel, logger zerolog.Logger) (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.date = date
	s.players = append([]domain.PlayerRecord(nil), players...)
	s.factory = game.NewQuestionFactory(game.NewPlayerPool(), ranges)
	s.logger = logger.With().Str("gameId", s.id).Logger()
	return s.beginLocked()
}

func (s *Session) restart() (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.factory == nil {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	s.factory.Pool().Reset()
	return s.beginLocked()
}

func (s *Session) beginLocked() (domain.GameState, error) {
	s.factory.Pool().Initialize(s.players)
	s.answers = nil
	s.score = 0
	s.cursor = 0
	s.current = nil

	if err := s.drawLocked(); err != nil {
		return domain.GameState{}, err
	}
	s.lastActive = s.now()
	return s.stateLocked(), nil
}

func (s *Session) drawLocked() error {
	if s.factory.Pool().Remaining() == 0 {
		s.logger.Warn().Msg("no unused players left, pool will reset")
	}
	q, err := s.factory.NextQuestion(s.players)
	if err != nil {
		return err
	}
	s.current = &q
	s.logger.Debug().
		Str("player", q.Player.Name).
		Float64("maxValue", q.MaxValue).
		Int("remaining", s.factory.Pool().Remaining()).
		Msg("question drawn")
	return nil
}

func (s *Session) submit(guess float64) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.AnswerResult{}, domain.ErrGameComplete
	}

	q := *s.current
	correct := q.Player.Answer
	points := game.Score(guess, correct, q.MaxValue)

	s.answers = append(s.answers, domain.AnswerRecord{
		Question:      q,
		UserAnswer:    guess,
		CorrectAnswer: correct,
		Points:        points,
	})
	s.score += points
	s.cursor++
	s.current = nil
	s.lastActive = s.now()

	result := domain.AnswerResult{
		GameID:        s.id,
		PlayerName:    q.Player.Name,
		UserAnswer:    guess,
		CorrectAnswer: correct,
		Points:        points,
		Perfect:       game.IsExactMatch(guess, correct),
		Message:       game.AccuracyMessage(points),
		TotalScore:    s.score,
	}

	if s.cursor < len(s.players) {
		if err := s.drawLocked(); err != nil {
			return domain.AnswerResult{}, err
		}
		next := s.current.Public()
		result.Next = &next
		return result, nil
	}

	summary := game.Summarize(s.answers, len(s.players))
	result.Complete = true
	result.Summary = &summary
	return result, nil
}

// State returns a snapshot of the session.
func (s *Session) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() domain.GameState {
	state := domain.GameState{
		GameID:          s.id,
		Date:            s.date,
		CurrentQuestion: s.cursor,
		TotalQuestions:  len(s.players),
		Score:           s.score,
		Complete:        s.current == nil && s.cursor >= len(s.players),
	}
	if s.current != nil {
		q := s.current.Public()
		state.Question = &q
	}
	return state
}

func (s *Session) summary() domain.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.Summarize(s.answers, len(s.players))
}

package domain

import (
	"math"
	"time"
)

// PlayerRecord is one row of a day's roster. Immutable once loaded.
type PlayerRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Country  string  `json:"country"`
	Role     string  `json:"role"`
	Question string  `json:"question"`
	Answer   float64 `json:"answer"`
}

// Fractional reports whether the answer carries decimal places.
func (p PlayerRecord) Fractional() bool {
	return IsFractional(p.Answer)
}

// IsFractional reports whether v has a non-zero fractional part.
func IsFractional(v float64) bool {
	return v != math.Trunc(v)
}

// Question is a ready-to-present round: a player, the stat being guessed and the guess ceiling.
type Question struct {
	Player    PlayerRecord `json:"player"`
	StatLabel string       `json:"statLabel"`
	MaxValue  float64      `json:"maxValue"`
	Unit      string       `json:"unit,omitempty"`
}

// PublicQuestion is the client view of a question; the answer stays server-side.
type PublicQuestion struct {
	PlayerID   string  `json:"playerId"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Country    string  `json:"country"`
	Role       string  `json:"role"`
	StatLabel  string  `json:"statLabel"`
	MaxValue   float64 `json:"maxValue"`
	Unit       string  `json:"unit,omitempty"`
	Fractional bool    `json:"fractional"`
}

// Public strips the answer from the question.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		PlayerID:   q.Player.ID,
		Name:       q.Player.Name,
		Image:      q.Player.Image,
		Country:    q.Player.Country,
		Role:       q.Player.Role,
		StatLabel:  q.StatLabel,
		MaxValue:   q.MaxValue,
		Unit:       q.Unit,
		Fractional: q.Player.Fractional(),
	}
}

// AnswerRecord is one scored round in a game session.
type AnswerRecord struct {
	Question      Question `json:"question"`
	UserAnswer    float64  `json:"userAnswer"`
	CorrectAnswer float64  `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// Perfect reports whether the guess equals the true value.
func (a AnswerRecord) Perfect() bool {
	return a.UserAnswer == a.CorrectAnswer
}

// Challenge is the roster published for one calendar date.
type Challenge struct {
	Date    string         `json:"date"`
	Players []PlayerRecord `json:"players"`
}

// GameState is a snapshot of a game session.
type GameState struct {
	GameID          string          `json:"gameId"`
	Date            string          `json:"date"`
	CurrentQuestion int             `json:"currentQuestion"`
	TotalQuestions  int             `json:"totalQuestions"`
	Score           int             `json:"score"`
	Question        *PublicQuestion `json:"question,omitempty"`
	Complete        bool            `json:"complete"`
}

// AnswerResult summarizes the outcome of a single guess.
type AnswerResult struct {
	GameID        string          `json:"gameId"`
	PlayerName    string          `json:"playerName"`
	UserAnswer    float64         `json:"userAnswer"`
	CorrectAnswer float64         `json:"correctAnswer"`
	Points        int             `json:"points"`
	Perfect       bool            `json:"perfect"`
	Message       string          `json:"message"`
	TotalScore    int             `json:"totalScore"`
	Next          *PublicQuestion `json:"next,omitempty"`
	Complete      bool            `json:"complete"`
	Summary       *GameSummary    `json:"summary,omitempty"`
}

// Performance is the end-of-game tier.
type Performance struct {
	Label string `json:"label"`
	Stars int    `json:"stars"`
}

// GameSummary aggregates a finished (or partial) game.
type GameSummary struct {
	TotalScore         int            `json:"totalScore"`
	TotalQuestions     int            `json:"totalQuestions"`
	AverageScore       int            `json:"averageScore"`
	AccuracyPercentage int            `json:"accuracyPercentage"`
	PerfectAnswers     int            `json:"perfectAnswers"`
	Performance        Performance    `json:"performance"`
	Answers            []AnswerRecord `json:"answers"`
}

// GameDate is one entry in the browsable window of daily challenges.
type GameDate struct {
	Date        string `json:"date"`
	DisplayDate string `json:"displayDate"`
	DayOfWeek   string `json:"dayOfWeek"`
	IsToday     bool   `json:"isToday"`
	Available   bool   `json:"available"`
}

// DateLayout is the canonical challenge date format.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD challenge date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

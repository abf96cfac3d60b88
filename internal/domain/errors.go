package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game id has no live session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrChallengeNotFound indicates no usable players are scheduled for the date.
	ErrChallengeNotFound = errors.New("no challenge available for date")
	// ErrGameComplete is returned when a guess arrives after the roster is exhausted.
	ErrGameComplete = errors.New("game already complete")
	// ErrInvalidGuess rejects NaN, infinite or negative guesses.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrInvalidDate indicates a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid challenge date")
	// ErrEmptyRoster is returned when a question is requested from an empty roster.
	ErrEmptyRoster = errors.New("roster is empty")
)

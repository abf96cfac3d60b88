package game

import (
	"math"

	"cricket-stats-game/internal/domain"
)

// ExactMatchBonus is added on top of the bucket score for a perfect guess.
const ExactMatchBonus = 25

// fractionalExactTolerance absorbs float and display rounding for decimal answers.
const fractionalExactTolerance = 0.01

type scoreBucket struct {
	maxError float64
	points   int
}

// Ascending; the first bucket whose threshold covers the error wins.
var scoreBuckets = []scoreBucket{
	{maxError: 0, points: 100},
	{maxError: 1, points: 95},
	{maxError: 2, points: 85},
	{maxError: 5, points: 75},
	{maxError: 10, points: 60},
	{maxError: 15, points: 45},
	{maxError: 25, points: 30},
	{maxError: 40, points: 15},
	{maxError: 60, points: 5},
}

// Score maps a guess to points by its percentage error against correctAnswer, plus
// ExactMatchBonus for an exact match. A zero correctAnswer scores 0.
// maxValue is accepted for range-aware policies and does not affect the result.
func Score(userAnswer, correctAnswer, maxValue float64) int {
	if correctAnswer == 0 {
		return 0
	}

	percentageError := PercentageError(userAnswer, correctAnswer)
	score := 0
	for _, b := range scoreBuckets {
		if percentageError <= b.maxError {
			score = b.points
			break
		}
	}

	if IsExactMatch(userAnswer, correctAnswer) {
		score += ExactMatchBonus
	}
	return max(0, score)
}

// PercentageError is |user - correct| / correct * 100.
func PercentageError(userAnswer, correctAnswer float64) float64 {
	return math.Abs(userAnswer-correctAnswer) / correctAnswer * 100
}

// IsExactMatch compares integral answers exactly and fractional answers within 0.01.
func IsExactMatch(userAnswer, correctAnswer float64) bool {
	if domain.IsFractional(correctAnswer) {
		return math.Abs(userAnswer-correctAnswer) < fractionalExactTolerance
	}
	return userAnswer == correctAnswer
}

// AccuracyMessage is the feedback line shown for a round's points.
func AccuracyMessage(points int) string {
	switch {
	case points >= 125:
		return "PERFECT + BONUS! Incredible!"
	case points == 100:
		return "Perfect! Exactly right!"
	case points >= 90:
		return "Incredible! Almost perfect!"
	case points >= 75:
		return "Excellent guess!"
	case points >= 60:
		return "Good estimate!"
	case points >= 45:
		return "Not bad!"
	case points >= 30:
		return "Getting warmer!"
	case points >= 15:
		return "Keep trying!"
	default:
		return "Better luck next time!"
	}
}

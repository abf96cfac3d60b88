package game

import (
	"math"

	"cricket-stats-game/internal/domain"
)

type performanceTier struct {
	minAverage int
	domain.Performance
}

var performanceTiers = []performanceTier{
	{80, domain.Performance{Label: "Cricket Legend!", Stars: 5}},
	{65, domain.Performance{Label: "Cricket Expert!", Stars: 4}},
	{50, domain.Performance{Label: "Cricket Fan!", Stars: 3}},
	{35, domain.Performance{Label: "Cricket Enthusiast!", Stars: 2}},
}

var lowestPerformance = domain.Performance{Label: "Keep Learning!", Stars: 1}

// Summarize aggregates the answers of a game of totalQuestions rounds.
// Accuracy strips the exact-match bonus so it stays on a 0-100 scale.
func Summarize(answers []domain.AnswerRecord, totalQuestions int) domain.GameSummary {
	summary := domain.GameSummary{
		TotalQuestions: totalQuestions,
		Answers:        append([]domain.AnswerRecord(nil), answers...),
	}

	baseTotal := 0
	for _, a := range answers {
		summary.TotalScore += a.Points
		if a.Perfect() {
			summary.PerfectAnswers++
			baseTotal += 100
		} else {
			baseTotal += a.Points
		}
	}

	if totalQuestions > 0 {
		summary.AverageScore = roundDiv(summary.TotalScore, totalQuestions)
		summary.AccuracyPercentage = roundDiv(baseTotal, totalQuestions)
	}
	summary.Performance = performanceFor(summary.AverageScore)
	return summary
}

func performanceFor(average int) domain.Performance {
	for _, tier := range performanceTiers {
		if average >= tier.minAverage {
			return tier.Performance
		}
	}
	return lowestPerformance
}

func roundDiv(total, n int) int {
	return int(math.Round(float64(total) / float64(n)))
}

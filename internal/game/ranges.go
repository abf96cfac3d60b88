package game

import (
	"math"
	"strings"

	"cricket-stats-game/internal/domain"
)

// StatCategory maps prompts containing Keyword to a ceiling floor and answer multiplier.
// An empty Keyword matches every prompt.
type StatCategory struct {
	Keyword    string
	Floor      float64
	Multiplier float64
}

func (c StatCategory) matches(prompt string) bool {
	return c.Keyword == "" || strings.Contains(prompt, c.Keyword)
}

func (c StatCategory) ceiling(answer float64) float64 {
	return math.Max(c.Floor, answer*c.Multiplier)
}

const (
	midpointTolerance = 0.05
	lowerShift        = 3.2
	upperShift        = 1.8
	fractionalSpread  = 2.0
	integralSpread    = 1.5
)

// RangeModel derives the guess ceiling for a stat prompt. Categories are checked in
// order and the first keyword match wins; the fallback applies when none match.
type RangeModel struct {
	Fractional         []StatCategory
	FractionalFallback StatCategory
	Integral           []StatCategory
	IntegralFallback   StatCategory
}

// DefaultRangeModel returns the cricket stat categories.
func DefaultRangeModel() RangeModel {
	return RangeModel{
		Fractional: []StatCategory{
			{Keyword: "average", Floor: 100, Multiplier: 3},
			{Keyword: "strike rate", Floor: 200, Multiplier: 2.5},
			{Keyword: "economy", Floor: 15, Multiplier: 3},
			{Keyword: "rate", Floor: 50, Multiplier: 3},
		},
		FractionalFallback: StatCategory{Floor: 100, Multiplier: 3},
		Integral: []StatCategory{
			{Keyword: "run", Floor: 30000, Multiplier: 2.5},
			{Keyword: "wicket", Floor: 800, Multiplier: 2.5},
			{Keyword: "match", Floor: 600, Multiplier: 2.5},
			{Keyword: "centur", Floor: 100, Multiplier: 2.5},
			{Keyword: "average", Floor: 100, Multiplier: 2.5},
			{Keyword: "strike rate", Floor: 200, Multiplier: 2.5},
			{Keyword: "economy", Floor: 15, Multiplier: 2.5},
		},
		IntegralFallback: StatCategory{Floor: 1000, Multiplier: 2.5},
	}
}

// Classify returns the category used for prompt and answer.
func (m RangeModel) Classify(prompt string, answer float64) StatCategory {
	prompt = strings.ToLower(prompt)
	categories, fallback := m.Integral, m.IntegralFallback
	if domain.IsFractional(answer) {
		categories, fallback = m.Fractional, m.FractionalFallback
	}
	for _, c := range categories {
		if c.matches(prompt) {
			return c
		}
	}
	return fallback
}

// DeriveMaxValue returns the guess ceiling for prompt so that answer is never near the
// middle of [0, ceiling] and the ceiling keeps a minimum spread above answer.
func (m RangeModel) DeriveMaxValue(prompt string, answer float64) float64 {
	baseMax := m.Classify(prompt, answer).ceiling(answer)

	mid := baseMax / 2
	if math.Abs(answer-mid) < baseMax*midpointTolerance {
		if answer < mid {
			baseMax = math.Ceil(answer * lowerShift)
		} else {
			baseMax = math.Ceil(answer * upperShift)
		}
	}

	spread := integralSpread
	if domain.IsFractional(answer) {
		spread = fractionalSpread
	}
	return math.Max(baseMax, answer*spread)
}

var defaultRanges = DefaultRangeModel()

// DeriveMaxValue applies the default cricket range model.
func DeriveMaxValue(prompt string, answer float64) float64 {
	return defaultRanges.DeriveMaxValue(prompt, answer)
}

package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveMaxValue_RunFloor(t *testing.T) {
	assert.Equal(t, 30000.0, DeriveMaxValue("Total Runs Scored", 10000))
}

func TestDeriveMaxValue_Categories(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		answer float64
		want   float64
	}{
		{"runs above floor", "Career Test Runs", 15921, 39802.5},
		{"wickets floor", "Test Wickets", 300, 800},
		{"wickets multiplier", "ODI WICKETS", 534, 1335},
		{"matches", "International Matches Played", 200, 600},
		{"centuries", "Test Centuries", 51, 127.5},
		{"integral fallback", "Sixes Hit", 120, 1000},
		{"fractional average floor", "Batting Average", 53.78, 161.34},
		{"fractional average small", "Bowling Average", 21.5, 100},
		{"fractional strike rate", "T20 Strike Rate", 137.96, 344.9},
		{"fractional economy", "ODI Economy", 4.42, 15},
		{"fractional rate", "Win Rate Percent", 62.5, 187.5},
		{"fractional fallback", "Catches per Match", 0.75, 100},
		{"zero answer", "Runs in the final", 0, 30000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, DeriveMaxValue(tc.prompt, tc.answer), 1e-9)
		})
	}
}

func TestDeriveMaxValue_FirstKeywordWins(t *testing.T) {
	m := DefaultRangeModel()

	// "strike rate" is listed before "rate" for fractional answers.
	assert.Equal(t, "strike rate", m.Classify("Strike Rate", 88.5).Keyword)
	// integral "run" is listed before "average".
	assert.Equal(t, "run", m.Classify("Average runs per innings", 45).Keyword)
	assert.Equal(t, "", m.Classify("Sixes", 10).Keyword)
}

func TestDeriveMaxValue_FloorAndMidpointProperties(t *testing.T) {
	prompts := []string{
		"Career Test Runs", "Test Wickets", "Matches", "Centuries", "Batting Average",
		"Strike Rate", "Economy Rate", "Win rate", "Sixes", "Ducks",
	}
	answers := []float64{0.5, 1, 2.75, 4.42, 7.6, 12, 33.3, 47.5, 50, 99.99, 120, 240, 333, 400, 999, 5000, 12000, 18000}

	for _, prompt := range prompts {
		for _, answer := range answers {
			got := DeriveMaxValue(prompt, answer)

			minSpread := answer * 1.5
			if answer != math.Trunc(answer) {
				minSpread = answer * 2
			}
			assert.GreaterOrEqual(t, got, minSpread, "%q %v", prompt, answer)

			mid := got / 2
			assert.False(t, math.Abs(answer-mid) < got*0.05,
				"answer %v sits in the midpoint band of %v for %q", answer, got, prompt)
		}
	}
}

func TestDeriveMaxValue_MidpointCorrection(t *testing.T) {
	t.Run("answer above midpoint pulls ceiling down", func(t *testing.T) {
		m := RangeModel{IntegralFallback: StatCategory{Multiplier: 2}}
		// base 200, midpoint 100: answer sits on the midpoint.
		assert.Equal(t, 180.0, m.DeriveMaxValue("anything", 100))
	})

	t.Run("answer below midpoint pushes ceiling up", func(t *testing.T) {
		m := RangeModel{IntegralFallback: StatCategory{Multiplier: 2.05}}
		// base 205, midpoint 102.5, tolerance 10.25.
		assert.Equal(t, 320.0, m.DeriveMaxValue("anything", 100))
	})

	t.Run("spread floor still applies", func(t *testing.T) {
		m := RangeModel{FractionalFallback: StatCategory{Multiplier: 2}}
		// 1.8x correction is below the 2x fractional spread.
		assert.InDelta(t, 21.0, m.DeriveMaxValue("anything", 10.5), 1e-9)
	})
}

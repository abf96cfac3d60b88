package game

import "cricket-stats-game/internal/domain"

// QuestionFactory draws unused players and attaches a guess ceiling.
type QuestionFactory struct {
	pool   *PlayerPool
	ranges RangeModel
}

func NewQuestionFactory(pool *PlayerPool, ranges RangeModel) *QuestionFactory {
	return &QuestionFactory{pool: pool, ranges: ranges}
}

// NextQuestion builds the next round from players. It only fails on an empty roster.
func (f *QuestionFactory) NextQuestion(players []domain.PlayerRecord) (domain.Question, error) {
	player, ok := f.pool.DrawUnused(players)
	if !ok {
		return domain.Question{}, domain.ErrEmptyRoster
	}
	return domain.Question{
		Player:    player,
		StatLabel: player.Question,
		MaxValue:  f.ranges.DeriveMaxValue(player.Question, player.Answer),
		Unit:      "",
	}, nil
}

// Pool exposes the factory's player pool for lifecycle calls.
func (f *QuestionFactory) Pool() *PlayerPool {
	return f.pool
}

package postgres

import (
	"context"
	"fmt"
	"strconv"

	"cricket-stats-game/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// RosterLoader loads a date's players from Postgres.
type RosterLoader struct {
	pool *pgxpool.Pool
}

func NewRosterLoader(pool *pgxpool.Pool) *RosterLoader {
	return &RosterLoader{pool: pool}
}

func (l *RosterLoader) LoadRoster(ctx context.Context, date string) ([]domain.PlayerRecord, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT position, name, image, country, role, question, answer
		FROM players
		WHERE challenge_date = $1::date AND name <> '' AND question <> '' AND answer > 0
		ORDER BY position`, date)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	players := make([]domain.PlayerRecord, 0)
	for rows.Next() {
		var (
			position int
			p        domain.PlayerRecord
		)
		if err := rows.Scan(&position, &p.Name, &p.Image, &p.Country, &p.Role, &p.Question, &p.Answer); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.ID = strconv.Itoa(position)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return players, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"cricket-stats-game/internal/domain"
	"cricket-stats-game/internal/infra/sheet"
	"github.com/uptrace/bun"
)

// PlayerRow is the bun model for the players table.
type PlayerRow struct {
	bun.BaseModel `bun:"table:players"`

	ID            int64     `bun:"id,pk,autoincrement"`
	ChallengeDate time.Time `bun:"challenge_date,type:date,notnull"`
	Position      int       `bun:"position,notnull"`
	Name          string    `bun:"name,notnull"`
	Image         string    `bun:"image,notnull"`
	Country       string    `bun:"country,notnull"`
	Role          string    `bun:"role,notnull"`
	Question      string    `bun:"question,notnull"`
	Answer        float64   `bun:"answer,notnull"`
}

// Importer upserts sheet rows into the players table.
type Importer struct {
	db *bun.DB
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db}
}

// Import writes rows keyed by (challenge_date, position); positions follow sheet order per date.
// Each imported date is replaced as a whole: positions beyond the new roster size are removed.
func (i *Importer) Import(ctx context.Context, rows []sheet.Row) (int, error) {
	models, err := toPlayerRows(rows)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}

	err = i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			On("CONFLICT (challenge_date, position) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("image = EXCLUDED.image").
			Set("country = EXCLUDED.country").
			Set("role = EXCLUDED.role").
			Set("question = EXCLUDED.question").
			Set("answer = EXCLUDED.answer").
			Exec(ctx)
		if err != nil {
			return err
		}
		for _, size := range rosterSizes(models) {
			day := size.date.Format(domain.DateLayout)
			_, err := tx.NewDelete().
				Model((*PlayerRow)(nil)).
				Where("challenge_date = ?::date", day).
				Where("position > ?", size.count).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("trim %s: %w", day, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import players: %w", err)
	}
	return len(models), nil
}

func toPlayerRows(rows []sheet.Row) ([]PlayerRow, error) {
	positions := make(map[string]int)
	models := make([]PlayerRow, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", row.Player.Name, err)
		}
		positions[row.Date]++
		models = append(models, PlayerRow{
			ChallengeDate: date,
			Position:      positions[row.Date],
			Name:          row.Player.Name,
			Image:         row.Player.Image,
			Country:       row.Player.Country,
			Role:          row.Player.Role,
			Question:      row.Player.Question,
			Answer:        row.Player.Answer,
		})
	}
	return models, nil
}

type rosterSize struct {
	date  time.Time
	count int
}

// rosterSizes reports the highest position per date, in first-seen order.
func rosterSizes(models []PlayerRow) []rosterSize {
	index := make(map[time.Time]int)
	var sizes []rosterSize
	for _, m := range models {
		i, ok := index[m.ChallengeDate]
		if !ok {
			i = len(sizes)
			index[m.ChallengeDate] = i
			sizes = append(sizes, rosterSize{date: m.ChallengeDate})
		}
		if m.Position > sizes[i].count {
			sizes[i].count = m.Position
		}
	}
	return sizes
}

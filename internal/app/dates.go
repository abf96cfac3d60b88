package app

import (
	"context"
	"time"

	"cricket-stats-game/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	pastDays   = 7
	futureDays = 3
)

// GameDates lists the browsable challenge window, from a week ago to three days ahead,
// and marks which dates have a roster. Lookup failures count as unavailable.
func (s *GameService) GameDates(ctx context.Context) ([]domain.GameDate, error) {
	today := s.now()
	dates := make([]domain.GameDate, 0, pastDays+futureDays+1)
	for offset := -pastDays; offset <= futureDays; offset++ {
		day := today.AddDate(0, 0, offset)
		dates = append(dates, domain.GameDate{
			Date:        day.Format(domain.DateLayout),
			DisplayDate: displayDate(offset, day),
			DayOfWeek:   day.Format("Mon"),
			IsToday:     offset == 0,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range dates {
		i := i
		g.Go(func() error {
			challenge, err := s.rosters.GetRoster(gctx, dates[i].Date)
			if err != nil {
				s.logger.Debug().Err(err).Str("date", dates[i].Date).Msg("roster lookup failed")
				return nil
			}
			dates[i].Available = len(challenge.Players) > 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

func displayDate(offset int, day time.Time) string {
	switch offset {
	case 0:
		return "Today"
	case -1:
		return "Yesterday"
	case 1:
		return "Tomorrow"
	default:
		return day.Format("Jan 2")
	}
}

package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"cricket-stats-game/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RosterLoader fetches a date's players from a backing store (sheet, Postgres).
type RosterLoader interface {
	LoadRoster(ctx context.Context, date string) ([]domain.PlayerRecord, error)
}

// RosterRepository caches rosters in Redis (hash per date) and falls back to a loader on cache miss.
// Players are stored as: HSET challenge:{date}:players {playerID} {json}
// Empty rosters are not cached.
type RosterRepository struct {
	client *redis.Client
	loader RosterLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewRosterRepository(client *redis.Client, loader RosterLoader, ttl time.Duration) *RosterRepository {
	return &RosterRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RosterRepository) GetRoster(ctx context.Context, date string) (domain.Challenge, error) {
	key := r.playersKey(date)

	if challenge, ok := r.fromCache(ctx, key, date); ok {
		return challenge, nil
	}

	result, err, _ := r.sf.Do(date, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if challenge, ok := r.fromCache(ctx, key, date); ok {
			return challenge, nil
		}

		players, err := r.loader.LoadRoster(ctx, date)
		if err != nil {
			return domain.Challenge{}, err
		}
		if len(players) == 0 {
			return domain.Challenge{Date: date}, nil
		}

		pipe := r.client.Pipeline()
		for _, p := range players {
			raw, err := json.Marshal(p)
			if err != nil {
				return domain.Challenge{}, err
			}
			pipe.HSet(ctx, key, p.ID, raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return domain.Challenge{Date: date, Players: players}, nil
	})
	if err != nil {
		return domain.Challenge{}, err
	}
	return result.(domain.Challenge), nil
}

func (r *RosterRepository) fromCache(ctx context.Context, key, date string) (domain.Challenge, bool) {
	entries, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(entries) == 0 {
		return domain.Challenge{}, false
	}
	players := make([]domain.PlayerRecord, 0, len(entries))
	for _, raw := range entries {
		var p domain.PlayerRecord
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return domain.Challenge{}, false
		}
		players = append(players, p)
	}
	sortByID(players)
	return domain.Challenge{Date: date, Players: players}, true
}

func (r *RosterRepository) playersKey(date string) string {
	return "challenge:" + date + ":players"
}

// sortByID restores roster order; numeric ids sort numerically.
func sortByID(players []domain.PlayerRecord) {
	sort.Slice(players, func(i, j int) bool {
		a, errA := strconv.Atoi(players[i].ID)
		b, errB := strconv.Atoi(players[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return players[i].ID < players[j].ID
	})
}

func (r *RosterRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

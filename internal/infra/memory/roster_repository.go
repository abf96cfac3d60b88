package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cricket-stats-game/internal/domain"
	"golang.org/x/sync/singleflight"
)

// RosterLoader fetches a date's players from a backing store (sheet, Postgres).
type RosterLoader interface {
	LoadRoster(ctx context.Context, date string) ([]domain.PlayerRecord, error)
}

// RosterRepository caches rosters per date with TTL to avoid repeated fetches.
type RosterRepository struct {
	loader RosterLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedRoster
}

type cachedRoster struct {
	challenge domain.Challenge
	expiresAt time.Time
}

func NewRosterRepository(loader RosterLoader, ttl time.Duration) *RosterRepository {
	return &RosterRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRoster),
	}
}

func (r *RosterRepository) GetRoster(ctx context.Context, date string) (domain.Challenge, error) {
	if challenge, ok := r.cached(date); ok {
		return challenge, nil
	}

	result, err, _ := r.sf.Do(date, func() (interface{}, error) {
		if challenge, ok := r.cached(date); ok {
			return challenge, nil
		}

		players, err := r.loader.LoadRoster(ctx, date)
		if err != nil {
			return domain.Challenge{}, err
		}
		challenge := domain.Challenge{Date: date, Players: players}

		r.mu.Lock()
		r.cache[date] = cachedRoster{
			challenge: challenge,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return challenge, nil
	})
	if err != nil {
		return domain.Challenge{}, err
	}
	return result.(domain.Challenge), nil
}

func (r *RosterRepository) cached(date string) (domain.Challenge, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[date]; ok && entry.expiresAt.After(now) {
		return entry.challenge, true
	}
	return domain.Challenge{}, false
}

// StaticRosterLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticRosterLoader struct {
	rosters map[string][]domain.PlayerRecord
}

func NewStaticRosterLoader(rosters map[string][]domain.PlayerRecord) *StaticRosterLoader {
	return &StaticRosterLoader{rosters: rosters}
}

func (l *StaticRosterLoader) LoadRoster(_ context.Context, date string) ([]domain.PlayerRecord, error) {
	if players, ok := l.rosters[date]; ok {
		return players, nil
	}
	return nil, domain.ErrChallengeNotFound
}

func (r *RosterRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

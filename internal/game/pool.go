package game

import (
	"math/rand"
	"sync"
	"time"

	"cricket-stats-game/internal/domain"
)

// PlayerPool holds one game's working roster and the ids already drawn from it.
// A single mutex guards Initialize, DrawUnused and Reset.
type PlayerPool struct {
	mu     sync.Mutex
	roster []domain.PlayerRecord
	used   map[string]struct{}
	rnd    *rand.Rand
}

func NewPlayerPool() *PlayerPool {
	return NewPlayerPoolWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPlayerPoolWithRand allows deterministic selection in tests.
func NewPlayerPoolWithRand(rnd *rand.Rand) *PlayerPool {
	return &PlayerPool{
		used: make(map[string]struct{}),
		rnd:  rnd,
	}
}

// Initialize replaces the roster with a copy of players and clears the used ids.
func (p *PlayerPool) Initialize(players []domain.PlayerRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initializeLocked(players)
}

func (p *PlayerPool) initializeLocked(players []domain.PlayerRecord) {
	p.roster = append([]domain.PlayerRecord(nil), players...)
	p.used = make(map[string]struct{}, len(players))
}

// DrawUnused returns a uniformly random player not yet drawn this game and marks it drawn.
// An uninitialized pool initializes itself from players first. When every player has
// been drawn the used ids are cleared once and the draw retried. The boolean is false
// only when the roster is empty.
func (p *PlayerPool) DrawUnused(players []domain.PlayerRecord) (domain.PlayerRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.roster) == 0 {
		p.initializeLocked(players)
	}

	unused := p.unusedLocked()
	if len(unused) == 0 {
		p.used = make(map[string]struct{}, len(p.roster))
		unused = p.unusedLocked()
	}
	if len(unused) == 0 {
		return domain.PlayerRecord{}, false
	}

	selected := unused[p.rnd.Intn(len(unused))]
	p.used[selected.ID] = struct{}{}
	return selected, true
}

// Reset clears the roster copy and the used ids.
func (p *PlayerPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roster = nil
	p.used = make(map[string]struct{})
}

// Remaining reports how many roster players have not been drawn.
func (p *PlayerPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.unusedLocked())
}

// Size reports the working roster length.
func (p *PlayerPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.roster)
}

func (p *PlayerPool) unusedLocked() []domain.PlayerRecord {
	unused := make([]domain.PlayerRecord, 0, len(p.roster))
	for _, player := range p.roster {
		if _, ok := p.used[player.ID]; !ok {
			unused = append(unused, player)
		}
	}
	return unused
}

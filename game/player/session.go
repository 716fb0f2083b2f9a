package player

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/snapshot"
)

// Session is one profile's live state. All mutation goes through the
// session's lock; that is what keeps the single-battle invariant when
// the same identity hits concurrent endpoints.
type Session struct {
	mu sync.Mutex

	Identity string
	State    *snapshot.State
	Battle   *battle.Session
	Offers   []progression.MoveOffer

	rng        *rand.Rand
	dirty      bool
	lastActive time.Time
}

// NewSession wraps loaded state. Each session carries its own random
// source so battles stay reproducible under a seeded one in tests.
func NewSession(identity string, st *snapshot.State, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		Identity:   identity,
		State:      st,
		rng:        rng,
		lastActive: time.Now(),
	}
}

// Lock serializes access to the session. Every service operation holds
// it end to end.
func (s *Session) Lock() {
	s.mu.Lock()
	s.lastActive = time.Now()
}

func (s *Session) Unlock() { s.mu.Unlock() }

// MarkDirty flags unsaved changes for the periodic snapshot flush.
func (s *Session) MarkDirty() { s.dirty = true }

// ClearDirty is called after a successful save.
func (s *Session) ClearDirty() { s.dirty = false }

// Dirty reports unsaved changes. Callers hold the lock.
func (s *Session) Dirty() bool { return s.dirty }

// LastActive is the time of the most recent operation.
func (s *Session) LastActive() time.Time { return s.lastActive }

// InBattle reports whether a live battle session exists.
func (s *Session) InBattle() bool {
	return s.Battle != nil && !s.Battle.State().Terminal()
}

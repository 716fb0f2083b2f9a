package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pokechain/arena/snapshot"
)

// SessionManager is the registry of live profile sessions, one per
// identity. Sessions are created lazily from snapshots and stay
// resident until evicted.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    *snapshot.Store
	seed     func() *rand.Rand
	logger   *zap.Logger
}

func NewSessionManager(store *snapshot.Store, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		store:    store,
		logger:   logger,
	}
}

// SetSeeder overrides per-session random sources; tests pin seeds here.
func (sm *SessionManager) SetSeeder(f func() *rand.Rand) { sm.seed = f }

// Get returns the live session for an identity, or nil.
func (sm *SessionManager) Get(identity string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[identity]
}

// GetOrLoad returns the live session, loading the snapshot on first
// access. snapshot.ErrNoSnapshot passes through for new identities.
func (sm *SessionManager) GetOrLoad(ctx context.Context, identity string) (*Session, error) {
	if s := sm.Get(identity); s != nil {
		return s, nil
	}

	st, err := sm.store.Load(ctx, identity)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[identity]; ok {
		// Another request loaded it first.
		return s, nil
	}
	var rng *rand.Rand
	if sm.seed != nil {
		rng = sm.seed()
	}
	s := NewSession(identity, st, rng)
	sm.sessions[identity] = s
	sm.logger.Info("profile session loaded",
		zap.String("identity", identity),
		zap.Int64("profile_id", st.Profile.ID),
		zap.String("trainer", st.Profile.TrainerName))
	return s, nil
}

// Register inserts a freshly created session (post profile creation).
func (sm *SessionManager) Register(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[s.Identity] = s
}

// Unregister drops a session from the registry without saving.
func (sm *SessionManager) Unregister(identity string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, identity)
}

// Count returns the number of resident sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// All returns a snapshot slice of resident sessions.
func (sm *SessionManager) All() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		out = append(out, s)
	}
	return out
}

// FlushDirty saves every session with unsaved changes. The periodic
// scheduler and graceful shutdown both run through here. The sweep
// locks each session directly so it does not count as activity.
func (sm *SessionManager) FlushDirty(ctx context.Context) int {
	flushed := 0
	for _, s := range sm.All() {
		s.mu.Lock()
		if s.Dirty() {
			if err := sm.store.Save(ctx, s.State); err != nil {
				sm.logger.Error("snapshot flush failed",
					zap.String("identity", s.Identity), zap.Error(err))
			} else {
				s.ClearDirty()
				flushed++
			}
		}
		s.mu.Unlock()
	}
	return flushed
}

// EvictIdle drops sessions inactive for longer than maxIdle, flushing
// unsaved changes first. Battles in progress are never evicted.
func (sm *SessionManager) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	evicted := 0
	for _, s := range sm.All() {
		s.mu.Lock()
		idle := time.Since(s.LastActive()) > maxIdle
		if idle && !s.InBattle() {
			if s.Dirty() {
				if err := sm.store.Save(ctx, s.State); err != nil {
					sm.logger.Error("eviction save failed",
						zap.String("identity", s.Identity), zap.Error(err))
					s.mu.Unlock()
					continue
				}
				s.ClearDirty()
			}
			sm.Unregister(s.Identity)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

package player

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/config"
	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/ledger"
	"github.com/pokechain/arena/model"
	"github.com/pokechain/arena/snapshot"
)

var (
	ErrNoRoster       = errors.New("player: profile has no creatures yet")
	ErrNotInBattle    = errors.New("player: no battle in progress")
	ErrInBattle       = errors.New("player: not allowed during a battle")
	ErrBadStarter     = errors.New("player: not a starter species")
	ErrHasStarter     = errors.New("player: starter already chosen")
	ErrNoPendingOffer = errors.New("player: no pending move offer")
)

// Service is the operation layer over profile sessions. Every public
// method locks the session for its whole duration; the battle engine
// underneath never sees concurrent calls for one profile.
type Service struct {
	cfg      *config.Config
	catalog  *catalog.Client
	engine   *progression.Engine
	ledger   *ledger.Service
	store    *snapshot.Store
	cache    cache.Cache
	Sessions *SessionManager
	logger   *zap.Logger
}

func NewService(
	cfg *config.Config,
	cat *catalog.Client,
	engine *progression.Engine,
	led *ledger.Service,
	store *snapshot.Store,
	c cache.Cache,
	sessions *SessionManager,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		catalog:  cat,
		engine:   engine,
		ledger:   led,
		store:    store,
		cache:    c,
		Sessions: sessions,
		logger:   logger,
	}
}

// Load returns the session for an identity, reading the snapshot when
// needed. snapshot.ErrNoSnapshot means the naming step is outstanding.
func (svc *Service) Load(ctx context.Context, identity string) (*Session, error) {
	return svc.Sessions.GetOrLoad(ctx, identity)
}

// Save persists the session's state immediately.
func (svc *Service) Save(ctx context.Context, s *Session) error {
	if err := svc.store.Save(ctx, s.State); err != nil {
		return err
	}
	s.ClearDirty()
	return nil
}

func now() time.Time { return time.Now() }

// emergencyBackup is the fixed rescue creature offered at the recovery
// decision point. Built in so a catalog outage can never block it.
func emergencyBackup() *creature.Creature {
	c := &creature.Creature{
		SpeciesID: 19,
		Name:      "rattata",
		Types:     []string{"normal"},
		Base:      [6]int{30, 56, 35, 25, 35, 72},
		Level:     5,
		Learned:   map[string]bool{},
	}
	for i := range c.IVs {
		c.IVs[i] = creature.PlayerIV
	}
	creature.PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

// buildCreature assembles a battle-ready creature from the catalog:
// species record plus up to four moves off the front of its learnset.
// Individual move fetch failures degrade to a shorter list; padding
// guarantees four slots either way.
func (svc *Service) buildCreature(ctx context.Context, idOrName string, level, iv int) (*creature.Creature, error) {
	sp, err := svc.catalog.GetSpecies(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	var moves []*catalog.MoveTemplate
	for _, name := range sp.MoveNames {
		if len(moves) >= creature.MoveSlots {
			break
		}
		mt, err := svc.catalog.GetMove(ctx, name)
		if err != nil {
			svc.logger.Warn("move fetch failed, skipping",
				zap.String("move", name), zap.Error(err))
			continue
		}
		moves = append(moves, mt)
	}
	return creature.NewFromTemplate(sp, moves, level, iv), nil
}

// --- adapters handed to the battle session ---

type walletAdapter struct{ prog *model.Progression }

func (w walletAdapter) Coins() int64        { return w.prog.Coins }
func (w walletAdapter) Spend(n int64) error { return progression.SpendCoins(w.prog, n) }

type reviveAdapter struct{ prog *model.Progression }

func (r reviveAdapter) FreeReviveAvailable() bool { return !r.prog.FreeReviveUsed }
func (r reviveAdapter) ConsumeFreeRevive()        { r.prog.FreeReviveUsed = true }

// progressionAdapter routes XP awards through the engine and parks any
// move-replacement offers on the session for later resolution.
type progressionAdapter struct {
	svc  *Service
	sess *Session
}

func (a *progressionAdapter) AwardXP(ctx context.Context, c *creature.Creature, amount int) (*battle.XPReport, error) {
	res, err := a.svc.engine.AwardXP(ctx, c, amount)
	if err != nil {
		return nil, err
	}
	a.sess.Offers = append(a.sess.Offers, res.Offers...)
	return &res.Report, nil
}

// opponentSource draws wild opponents from the configured species pool
// at the requested level.
type opponentSource struct {
	svc  *Service
	sess *Session
}

func (o *opponentSource) NextOpponent(ctx context.Context, level int) (*creature.Creature, error) {
	id := o.sess.rng.Intn(o.svc.cfg.Game.OpponentPoolSize) + 1
	return o.svc.buildCreature(ctx, strconv.Itoa(id), level, creature.OpponentIV)
}

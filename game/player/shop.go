package player

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/game/roster"
	"github.com/pokechain/arena/ledger"
)

var (
	ErrBadItemKind = errors.New("player: item not sold here")
	ErrBadQty      = errors.New("player: invalid quantity")
	ErrBadListing  = errors.New("player: no such market listing")
	ErrNotOwned    = errors.New("player: creature not owned by profile")
)

const marketCacheTTL = 26 * time.Hour

// Listing is one marketplace slot. The board is deterministic per day
// so every trainer sees the same stock.
type Listing struct {
	Slot      int      `json:"slot"`
	SpeciesID int      `json:"species_id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Level     int      `json:"level"`
	Price     int64    `json:"price"`
}

// BuyItem purchases consumables from the fixed item shop.
func (svc *Service) BuyItem(ctx context.Context, s *Session, kind string, qty int) error {
	s.Lock()
	defer s.Unlock()

	price, ok := roster.ItemPrices[kind]
	if !ok {
		return ErrBadItemKind
	}
	if qty < 1 || qty > 99 {
		return ErrBadQty
	}
	if err := progression.SpendCoins(s.State.Progression, price*int64(qty)); err != nil {
		return err
	}
	s.State.Inventory.Add(kind, qty)
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// Market returns today's listings, generating and caching the board on
// first access.
func (svc *Service) Market(ctx context.Context) ([]Listing, error) {
	day := time.Now().UTC().Format("2006-01-02")
	key := "arena:market:" + day

	if cached, err := svc.cache.Get(ctx, key); err == nil {
		var out []Listing
		if json.Unmarshal([]byte(cached), &out) == nil {
			return out, nil
		}
	}

	h := fnv.New64a()
	h.Write([]byte(day))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	out := make([]Listing, 0, svc.cfg.Game.MarketSlots)
	for slot := 0; len(out) < svc.cfg.Game.MarketSlots; slot++ {
		id := rng.Intn(svc.cfg.Game.OpponentPoolSize) + 1
		sp, err := svc.catalog.GetSpecies(ctx, strconv.Itoa(id))
		if err != nil {
			svc.logger.Warn("market species fetch failed",
				zap.Int("species_id", id), zap.Error(err))
			if slot > svc.cfg.Game.MarketSlots*3 {
				return nil, err
			}
			continue
		}
		out = append(out, Listing{
			Slot:      len(out),
			SpeciesID: sp.ID,
			Name:      sp.Name,
			Types:     sp.Types,
			Level:     rng.Intn(11) + 5,
			Price:     int64(rng.Intn(501) + 100),
		})
	}

	raw, _ := json.Marshal(out)
	if err := svc.cache.Set(ctx, key, string(raw), marketCacheTTL); err != nil {
		svc.logger.Warn("market cache write failed", zap.Error(err))
	}
	return out, nil
}

// BuyCreature purchases one marketplace listing. The creature joins the
// team or storage; the buy is reported to the ledger best-effort.
func (svc *Service) BuyCreature(ctx context.Context, s *Session, slot int) (*creature.Creature, []progression.Unlock, error) {
	listings, err := svc.Market(ctx)
	if err != nil {
		return nil, nil, err
	}
	if slot < 0 || slot >= len(listings) {
		return nil, nil, ErrBadListing
	}
	l := listings[slot]

	s.Lock()
	defer s.Unlock()

	if err := progression.SpendCoins(s.State.Progression, l.Price); err != nil {
		return nil, nil, err
	}
	c, err := svc.buildCreature(ctx, strconv.Itoa(l.SpeciesID), l.Level, creature.PlayerIV)
	if err != nil {
		// Refund; the purchase never happened.
		progression.AwardCoins(s.State.Progression, l.Price)
		return nil, nil, err
	}
	s.State.Party.Add(c)
	s.State.Progression.Purchases++
	unlocks := svc.evaluateAchievements(s)
	s.MarkDirty()

	rc := svc.ledger.Submit(ctx, s.State.Profile.ID, ledger.ActionBuyCreature, map[string]interface{}{
		"species_id": c.SpeciesID,
		"name":       c.Name,
		"level":      c.Level,
		"price":      l.Price,
	})
	svc.logger.Info("creature purchased",
		zap.String("trainer", s.State.Profile.TrainerName),
		zap.String("species", c.Name),
		zap.Int64("price", l.Price),
		zap.Bool("ledger_accepted", rc.Accepted))

	if err := svc.Save(ctx, s); err != nil {
		return nil, nil, err
	}
	return c, unlocks, nil
}

// ListCreature reports a sale listing for an owned creature to the
// ledger. Peer-to-peer settlement happens off-process; locally this is
// record-keeping only.
func (svc *Service) ListCreature(ctx context.Context, s *Session, creatureID int64, price int64) (ledger.Receipt, error) {
	s.Lock()
	defer s.Unlock()

	if price <= 0 {
		return ledger.Receipt{}, ErrBadQty
	}
	var owned *creature.Creature
	for _, c := range s.State.Party.All() {
		if c.ID == creatureID {
			owned = c
			break
		}
	}
	if owned == nil {
		return ledger.Receipt{}, ErrNotOwned
	}
	rc := svc.ledger.Submit(ctx, s.State.Profile.ID, ledger.ActionListCreature, map[string]interface{}{
		"creature_id": creatureID,
		"species_id":  owned.SpeciesID,
		"name":        owned.Name,
		"price":       price,
	})
	return rc, nil
}

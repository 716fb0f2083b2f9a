package player

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/game/roster"
	"github.com/pokechain/arena/ledger"
	"github.com/pokechain/arena/model"
	"github.com/pokechain/arena/snapshot"
)

var (
	ErrNameTaken  = errors.New("player: trainer name already taken")
	ErrBadName    = errors.New("player: invalid trainer name")
	ErrProfileDup = errors.New("player: identity already has a profile")
	ErrWrongPin   = errors.New("player: wrong PIN")
)

// starter kit every new profile receives.
var starterItems = map[string]int{
	model.ItemHealSmall: 3,
	model.ItemHealLarge: 1,
	model.ItemRevival:   1,
}

// CreateProfile completes the naming step for a fresh identity and
// registers a live session. The optional PIN is bcrypt-hashed.
func (svc *Service) CreateProfile(ctx context.Context, identity, trainerName, pin string) (*Session, error) {
	trainerName = strings.TrimSpace(trainerName)
	if len(trainerName) < 3 || len(trainerName) > 20 {
		return nil, ErrBadName
	}
	if s := svc.Sessions.Get(identity); s != nil {
		return nil, ErrProfileDup
	}

	profile := &model.Profile{Identity: identity, TrainerName: trainerName}
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		profile.PinHash = string(hash)
	}
	if err := svc.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	st := &snapshot.State{
		Profile:   profile,
		Party:     &roster.Party{},
		Inventory: roster.NewInventoryFrom(starterItems),
		Progression: &model.Progression{
			ProfileID:    profile.ID,
			Coins:        progression.StartingCoins,
			TrainerLevel: 1,
		},
		Achievements: map[string]bool{},
	}
	s := NewSession(identity, st, nil)
	s.MarkDirty()
	svc.Sessions.Register(s)

	if err := svc.Save(ctx, s); err != nil {
		return nil, err
	}
	svc.logger.Info("profile created",
		zap.String("identity", identity),
		zap.String("trainer", trainerName))
	return s, nil
}

// VerifyPin checks a profile's PIN. Profiles without one always pass.
func VerifyPin(profile *model.Profile, pin string) error {
	if profile.PinHash == "" {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PinHash), []byte(pin)) != nil {
		return ErrWrongPin
	}
	return nil
}

// Starters lists the species offered to new trainers.
func (svc *Service) Starters(ctx context.Context) ([]*catalog.Species, error) {
	out := make([]*catalog.Species, 0, len(catalog.StarterIDs))
	for _, id := range catalog.StarterIDs {
		sp, err := svc.catalog.GetSpecies(ctx, strconv.Itoa(id))
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, nil
}

// ChooseStarter mints the first creature. One starter per profile; the
// mint is reported to the ledger best-effort.
func (svc *Service) ChooseStarter(ctx context.Context, s *Session, speciesID int) (*creature.Creature, error) {
	s.Lock()
	defer s.Unlock()

	if len(s.State.Party.All()) > 0 {
		return nil, ErrHasStarter
	}
	valid := false
	for _, id := range catalog.StarterIDs {
		if id == speciesID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrBadStarter
	}

	c, err := svc.buildCreature(ctx, strconv.Itoa(speciesID), svc.cfg.Game.StarterLevel, creature.PlayerIV)
	if err != nil {
		return nil, err
	}
	s.State.Party.Add(c)
	s.MarkDirty()

	rc := svc.ledger.Submit(ctx, s.State.Profile.ID, ledger.ActionMintStarter, map[string]interface{}{
		"species_id": c.SpeciesID,
		"name":       c.Name,
		"level":      c.Level,
	})
	svc.logger.Info("starter chosen",
		zap.String("trainer", s.State.Profile.TrainerName),
		zap.String("species", c.Name),
		zap.Bool("ledger_accepted", rc.Accepted))

	if err := svc.Save(ctx, s); err != nil {
		return nil, err
	}
	return c, nil
}

package snapshot

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/roster"
	"github.com/pokechain/arena/model"
)

// ErrNoSnapshot means the identity has no stored profile yet; the
// caller must run the naming/creation step first.
var ErrNoSnapshot = errors.New("snapshot: no profile for identity")

// State is everything a profile persists between sessions. An
// in-progress battle is deliberately absent; battles never survive a
// reload.
type State struct {
	Profile      *model.Profile
	Party        *roster.Party
	Inventory    *roster.Inventory
	Progression  *model.Progression
	Achievements map[string]bool
}

// Store reads and writes profile snapshots.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Load rebuilds a profile's state from the DB. Team rows come back in
// slot order; storage rows keep creation order.
func (s *Store) Load(ctx context.Context, identity string) (*State, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var rows []model.Creature
	if err := s.db.WithContext(ctx).
		Where("profile_id = ?", profile.ID).
		Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	party := &roster.Party{}
	var team []model.Creature
	for i := range rows {
		if rows[i].TeamSlot >= 0 {
			team = append(team, rows[i])
		} else {
			party.Storage = append(party.Storage, creature.FromModel(&rows[i]))
		}
	}
	sort.Slice(team, func(i, j int) bool { return team[i].TeamSlot < team[j].TeamSlot })
	for i := range team {
		party.Team = append(party.Team, creature.FromModel(&team[i]))
	}

	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("profile_id = ?", profile.ID).Find(&items).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it.Kind] = it.Qty
	}

	prog := model.Progression{ProfileID: profile.ID}
	if err := s.db.WithContext(ctx).
		Where("profile_id = ?", profile.ID).
		FirstOrCreate(&prog).Error; err != nil {
		return nil, err
	}

	var unlocks []model.Achievement
	if err := s.db.WithContext(ctx).
		Where("profile_id = ?", profile.ID).Find(&unlocks).Error; err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		held[u.Code] = true
	}

	return &State{
		Profile:      &profile,
		Party:        party,
		Inventory:    roster.NewInventoryFrom(counts),
		Progression:  &prog,
		Achievements: held,
	}, nil
}

// Save writes the whole profile state in one transaction. New creature
// rows get their DB ids written back into the runtime structs.
func (s *Store) Save(ctx context.Context, st *State) error {
	now := time.Now()
	st.Profile.LastSeenAt = &now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(st.Profile).Error; err != nil {
			return err
		}
		if err := tx.Save(st.Progression).Error; err != nil {
			return err
		}

		for slot, c := range st.Party.Team {
			if err := saveCreature(tx, c, st.Profile.ID, slot); err != nil {
				return err
			}
		}
		for _, c := range st.Party.Storage {
			if err := saveCreature(tx, c, st.Profile.ID, -1); err != nil {
				return err
			}
		}

		for kind, qty := range st.Inventory.Items() {
			item := model.InventoryItem{ProfileID: st.Profile.ID, Kind: kind}
			if err := tx.Where(&item).FirstOrCreate(&item).Error; err != nil {
				return err
			}
			if err := tx.Model(&item).Update("qty", qty).Error; err != nil {
				return err
			}
		}

		for code := range st.Achievements {
			unlock := model.Achievement{ProfileID: st.Profile.ID, Code: code}
			if err := tx.Where(&unlock).FirstOrCreate(&unlock).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("snapshot save failed",
			zap.Int64("profile_id", st.Profile.ID), zap.Error(err))
		return err
	}
	return nil
}

func saveCreature(tx *gorm.DB, c *creature.Creature, profileID int64, slot int) error {
	row := creature.ToModel(c, profileID, slot)
	if err := tx.Save(row).Error; err != nil {
		return err
	}
	c.ID = row.ID
	return nil
}

// RecordBattle appends one battle history row.
func (s *Store) RecordBattle(ctx context.Context, rec *model.BattleRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// BattleHistory returns the most recent battles for a profile.
func (s *Store) BattleHistory(ctx context.Context, profileID int64, limit int) ([]model.BattleRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []model.BattleRecord
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// CreateProfile completes the naming step for a new identity.
func (s *Store) CreateProfile(ctx context.Context, p *model.Profile) error {
	return s.db.WithContext(ctx).Create(p).Error
}

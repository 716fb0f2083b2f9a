package player

import (
	"context"
	"time"

	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/model"
)

// SwitchActiveOutside changes the battle lead between battles. Free and
// persisted immediately; mid-battle switches go through the battle
// session instead.
func (svc *Service) SwitchActiveOutside(ctx context.Context, s *Session, index int) error {
	s.Lock()
	defer s.Unlock()

	if s.InBattle() {
		return ErrInBattle
	}
	if err := s.State.Party.SwitchActive(index); err != nil {
		return err
	}
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// UseItemOutside applies a consumable between battles.
func (svc *Service) UseItemOutside(ctx context.Context, s *Session, kind string, target int) error {
	s.Lock()
	defer s.Unlock()

	if s.InBattle() {
		return ErrInBattle
	}
	team := s.State.Party.Team
	if target < 0 || target >= len(team) {
		return ErrNoRoster
	}
	if err := s.State.Inventory.UseOn(kind, team[target], target == s.State.Party.Active); err != nil {
		return err
	}
	progression.RecordQuestProgress(s.State.Progression, progression.MetricItemsUsed, 1, now())
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// HealTeam fully restores the team for coins, the out-of-battle
// counterpart of the recovery heal option.
func (svc *Service) HealTeam(ctx context.Context, s *Session) error {
	s.Lock()
	defer s.Unlock()

	if s.InBattle() {
		return ErrInBattle
	}
	if err := progression.SpendCoins(s.State.Progression, svc.cfg.Game.TeamHealCost); err != nil {
		return err
	}
	s.State.Party.HealAll()
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// PromoteCreature moves a storage creature onto the team.
func (svc *Service) PromoteCreature(ctx context.Context, s *Session, storageIndex int) error {
	s.Lock()
	defer s.Unlock()
	if s.InBattle() {
		return ErrInBattle
	}
	if err := s.State.Party.Promote(storageIndex); err != nil {
		return err
	}
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// DemoteCreature moves a team creature into storage.
func (svc *Service) DemoteCreature(ctx context.Context, s *Session, teamIndex int) error {
	s.Lock()
	defer s.Unlock()
	if s.InBattle() {
		return ErrInBattle
	}
	if err := s.State.Party.Demote(teamIndex); err != nil {
		return err
	}
	s.MarkDirty()
	return svc.Save(ctx, s)
}

// Quests returns today's quest board, lazily resetting stale progress.
func (svc *Service) Quests(s *Session) []progression.QuestView {
	s.Lock()
	defer s.Unlock()
	if progression.ResetStaleQuests(s.State.Progression, time.Now()) {
		s.MarkDirty()
	}
	return progression.QuestStatus(s.State.Progression, time.Now())
}

// BattleHistory returns the profile's recent battles.
func (svc *Service) BattleHistory(ctx context.Context, s *Session, limit int) ([]model.BattleRecord, error) {
	s.Lock()
	profileID := s.State.Profile.ID
	s.Unlock()
	return svc.store.BattleHistory(ctx, profileID, limit)
}

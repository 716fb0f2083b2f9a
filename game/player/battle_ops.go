package player

import (
	"context"

	"go.uber.org/zap"

	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/ledger"
	"github.com/pokechain/arena/model"
)

// BattleOutcomeView is returned alongside events when a battle ends.
type BattleOutcomeView struct {
	Outcome    progression.BattleOutcome   `json:"outcome"`
	QuestsDone []progression.QuestComplete `json:"quests_done,omitempty"`
	Unlocks    []progression.Unlock        `json:"unlocks,omitempty"`
	ReceiptID  string                      `json:"receipt_id,omitempty"`
	LedgerOK   bool                        `json:"ledger_ok"`
}

// StartBattle opens a battle session against count opponents.
func (svc *Service) StartBattle(ctx context.Context, s *Session, count int) ([]battle.Event, error) {
	s.Lock()
	defer s.Unlock()

	if s.InBattle() {
		return nil, battle.ErrBattleInProgress
	}
	if count < 1 || count > svc.cfg.Game.MaxOpponents {
		return nil, battle.ErrOpponentCount
	}
	party := s.State.Party
	if len(party.Team) == 0 {
		return nil, ErrNoRoster
	}
	if !party.HasUsable() {
		return nil, battle.ErrNoEligible
	}

	b := battle.NewSession(battle.Config{
		Team:           party.Team,
		ActiveIndex:    party.Active,
		TotalOpponents: count,
		Opponents:      &opponentSource{svc: svc, sess: s},
		Items:          s.State.Inventory,
		Wallet:         walletAdapter{prog: s.State.Progression},
		Revive:         reviveAdapter{prog: s.State.Progression},
		Progression:    &progressionAdapter{svc: svc, sess: s},
		TeamHealCost:   svc.cfg.Game.TeamHealCost,
		Backup:         emergencyBackup,
		Logger:         svc.logger,
		RNG:            s.rng,
	})
	events, err := b.Start(ctx)
	if err != nil {
		return nil, err
	}
	s.Battle = b
	s.MarkDirty()
	return events, nil
}

// battleSession fetches the live battle or fails.
func (s *Session) battleSession() (*battle.Session, error) {
	if s.Battle == nil {
		return nil, ErrNotInBattle
	}
	return s.Battle, nil
}

// UseMove plays the move in slot and runs the opponent's response.
func (svc *Service) UseMove(ctx context.Context, s *Session, slot int) ([]battle.Event, *BattleOutcomeView, error) {
	return svc.battleCommand(ctx, s, func(b *battle.Session) ([]battle.Event, error) {
		return b.UseMove(ctx, slot)
	})
}

// SwitchCreature switches the active creature mid-battle.
func (svc *Service) SwitchCreature(ctx context.Context, s *Session, index int) ([]battle.Event, *BattleOutcomeView, error) {
	return svc.battleCommand(ctx, s, func(b *battle.Session) ([]battle.Event, error) {
		events, err := b.Switch(ctx, index)
		if err == nil {
			s.State.Party.Active = b.ActiveIndex()
		}
		return events, err
	})
}

// UseBattleItem consumes an inventory item mid-battle.
func (svc *Service) UseBattleItem(ctx context.Context, s *Session, kind string, target int) ([]battle.Event, *BattleOutcomeView, error) {
	return svc.battleCommand(ctx, s, func(b *battle.Session) ([]battle.Event, error) {
		events, err := b.UseItem(ctx, kind, target)
		if err == nil {
			progression.RecordQuestProgress(s.State.Progression, progression.MetricItemsUsed, 1, now())
		}
		return events, err
	})
}

// Run attempts to flee the battle.
func (svc *Service) Run(ctx context.Context, s *Session) ([]battle.Event, *BattleOutcomeView, error) {
	return svc.battleCommand(ctx, s, func(b *battle.Session) ([]battle.Event, error) {
		return b.Run(ctx)
	})
}

// Recover resolves the recovery decision point.
func (svc *Service) Recover(ctx context.Context, s *Session, opt battle.RecoveryOption) ([]battle.Event, *BattleOutcomeView, error) {
	return svc.battleCommand(ctx, s, func(b *battle.Session) ([]battle.Event, error) {
		events, err := b.Recover(ctx, opt)
		if err == nil {
			// The emergency backup may have grown the team.
			s.State.Party.Team = b.Team()
			s.State.Party.Active = b.ActiveIndex()
		}
		return events, err
	})
}

// BattleSnapshot returns the current battle view.
func (svc *Service) BattleSnapshot(s *Session) (*battle.Snapshot, error) {
	s.Lock()
	defer s.Unlock()
	b, err := s.battleSession()
	if err != nil {
		return nil, err
	}
	snap := b.Snapshot()
	return &snap, nil
}

// battleCommand wraps one battle action: run it under the session lock,
// then settle accounts if the battle reached a terminal state.
func (svc *Service) battleCommand(ctx context.Context, s *Session, fn func(*battle.Session) ([]battle.Event, error)) ([]battle.Event, *BattleOutcomeView, error) {
	s.Lock()
	defer s.Unlock()

	b, err := s.battleSession()
	if err != nil {
		return nil, nil, err
	}
	events, err := fn(b)
	if err != nil {
		return nil, nil, err
	}
	s.MarkDirty()

	if !b.State().Terminal() {
		return events, nil, nil
	}
	view := svc.settleBattle(ctx, s, b)
	return events, view, nil
}

// settleBattle folds a finished battle into progression, quests,
// achievements, history, the leaderboard, and the ledger. The battle
// session is detached; it never persists.
func (svc *Service) settleBattle(ctx context.Context, s *Session, b *battle.Session) *BattleOutcomeView {
	result := model.BattleResultFled
	switch b.State() {
	case battle.StateVictory:
		result = model.BattleResultWin
	case battle.StateDefeat:
		result = model.BattleResultLoss
	}

	prog := s.State.Progression
	view := &BattleOutcomeView{
		Outcome: progression.ApplyBattleOutcome(prog, result, b.Defeated()),
	}

	if result == model.BattleResultWin {
		view.QuestsDone = append(view.QuestsDone,
			progression.RecordQuestProgress(prog, progression.MetricBattlesWon, 1, now())...)
	}
	if b.Defeated() > 0 {
		view.QuestsDone = append(view.QuestsDone,
			progression.RecordQuestProgress(prog, progression.MetricOpponentsDefeated, b.Defeated(), now())...)
	}
	view.Unlocks = svc.evaluateAchievements(s)

	if result != model.BattleResultFled {
		rc := svc.ledger.Submit(ctx, s.State.Profile.ID, ledger.ActionRecordBattle, map[string]interface{}{
			"result":    result,
			"opponents": b.Defeated(),
			"rounds":    b.Round(),
		})
		view.ReceiptID = rc.ReceiptID
		view.LedgerOK = rc.Accepted

		rec := &model.BattleRecord{
			ProfileID:         s.State.Profile.ID,
			Result:            result,
			OpponentsDefeated: b.Defeated(),
			Rounds:            b.Round(),
		}
		if rc.Accepted {
			rec.ReceiptID = rc.ReceiptID
		}
		if err := svc.store.RecordBattle(ctx, rec); err != nil {
			svc.logger.Error("battle record write failed", zap.Error(err))
		}
	}

	svc.updateLeaderboard(ctx, s)
	s.Battle = nil
	s.MarkDirty()
	if err := svc.Save(ctx, s); err != nil {
		svc.logger.Error("post-battle save failed",
			zap.String("identity", s.Identity), zap.Error(err))
	}
	svc.logger.Info("battle settled",
		zap.String("trainer", s.State.Profile.TrainerName),
		zap.String("result", result),
		zap.Int("defeated", b.Defeated()),
		zap.Int64("coins_awarded", view.Outcome.CoinsAwarded))
	return view
}

// evaluateAchievements runs the pure check and applies new unlocks.
func (svc *Service) evaluateAchievements(s *Session) []progression.Unlock {
	facts := progression.RosterFacts{
		DistinctSpecies: s.State.Party.DistinctSpecies(),
		OwnsLegendary:   s.State.Party.OwnsLegendary(),
		Purchases:       s.State.Progression.Purchases,
	}
	unlocks := progression.EvaluateAchievements(s.State.Progression, facts, s.State.Achievements)
	for _, u := range unlocks {
		s.State.Achievements[u.Code] = true
		progression.AwardCoins(s.State.Progression, u.Bonus)
		svc.logger.Info("achievement unlocked",
			zap.String("trainer", s.State.Profile.TrainerName),
			zap.String("code", u.Code))
	}
	return unlocks
}

// PendingOffers lists unresolved move-replacement offers.
func (svc *Service) PendingOffers(s *Session) []progression.MoveOffer {
	s.Lock()
	defer s.Unlock()
	return append([]progression.MoveOffer(nil), s.Offers...)
}

// ResolveMoveOffer applies the trainer's decision on the oldest pending
// offer for the given creature.
func (svc *Service) ResolveMoveOffer(ctx context.Context, s *Session, creatureID int64, replaceSlot int, accept bool) error {
	s.Lock()
	defer s.Unlock()

	for i, offer := range s.Offers {
		if offer.CreatureID != creatureID {
			continue
		}
		var target int = -1
		for j, c := range s.State.Party.All() {
			if c.ID == creatureID {
				target = j
				break
			}
		}
		if target < 0 {
			return ErrNoPendingOffer
		}
		if err := progression.ResolveMoveOffer(s.State.Party.All()[target], offer, replaceSlot, accept); err != nil {
			return err
		}
		s.Offers = append(s.Offers[:i], s.Offers[i+1:]...)
		s.MarkDirty()
		return svc.Save(ctx, s)
	}
	return ErrNoPendingOffer
}

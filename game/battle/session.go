package battle

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/model"
)

// State is the battle session lifecycle state.
type State string

const (
	StateSetup            State = "setup"
	StateInProgress       State = "in_progress"
	StateAwaitingSwitch   State = "awaiting_switch"
	StateAwaitingRecovery State = "awaiting_recovery"
	StateVictory          State = "victory"
	StateDefeat           State = "defeat"
	StateFled             State = "fled"
)

// Terminal reports whether the session has ended.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateFled
}

// RecoveryOption is one choice offered when the whole team is down.
type RecoveryOption string

const (
	RecoverFreeRevive RecoveryOption = "free_revive"
	RecoverRevival    RecoveryOption = "revival_item"
	RecoverEmergency  RecoveryOption = "emergency_backup"
	RecoverHealTeam   RecoveryOption = "heal_team"
	RecoverDefeat     RecoveryOption = "accept_defeat"
)

// EscapeChance is the percent chance a run attempt succeeds.
const EscapeChance = 80

// MaxTeam is the party size cap.
const MaxTeam = 6

// OpponentSource constructs wild opponents for a round.
type OpponentSource interface {
	NextOpponent(ctx context.Context, level int) (*creature.Creature, error)
}

// ItemStore exposes the profile's consumables to the battle. The store
// enforces per-kind rules (healing needs the active, living target;
// revival a fainted one) and does not consume a unit on rejection.
type ItemStore interface {
	Count(kind string) int
	UseOn(kind string, target *creature.Creature, active bool) error
}

// Wallet exposes the profile's coin balance for the heal-team option.
type Wallet interface {
	Coins() int64
	Spend(amount int64) error
}

// ReviveFlag gates the one-time free revive.
type ReviveFlag interface {
	FreeReviveAvailable() bool
	ConsumeFreeRevive()
}

// XPReport describes what happened when XP was awarded.
type XPReport struct {
	Amount       int
	LevelsGained int
	NewLevel     int
	EvolvedFrom  string
	EvolvedTo    string
	LearnedMoves []string
	OfferedMoves []string
}

// ProgressionHook lets the battle hand XP to the progression engine
// without depending on it.
type ProgressionHook interface {
	AwardXP(ctx context.Context, c *creature.Creature, amount int) (*XPReport, error)
}

// Config wires one battle session.
type Config struct {
	Team           []*creature.Creature
	ActiveIndex    int
	TotalOpponents int
	Opponents      OpponentSource
	Items          ItemStore
	Wallet         Wallet
	Revive         ReviveFlag
	Progression    ProgressionHook
	TeamHealCost   int64
	Backup         func() *creature.Creature
	Logger         *zap.Logger
	RNG            *rand.Rand
}

// Session is one battle against a run of wild opponents. It is a pure
// command-driven state machine: every call resolves synchronously and
// appends to the ordered event log. Callers serialize access per
// profile.
type Session struct {
	cfg      Config
	state    State
	opponent *creature.Creature
	round    int
	defeated int
	log      []Event
	logger   *zap.Logger
	rng      *rand.Rand
}

// NewSession builds a session in Setup. Start must be called before
// any battle command.
func NewSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		cfg:    cfg,
		state:  StateSetup,
		logger: cfg.Logger,
		rng:    cfg.RNG,
	}
}

func (s *Session) State() State                 { return s.state }
func (s *Session) Round() int                   { return s.round }
func (s *Session) Defeated() int                { return s.defeated }
func (s *Session) Opponent() *creature.Creature { return s.opponent }
func (s *Session) ActiveIndex() int             { return s.cfg.ActiveIndex }
func (s *Session) Team() []*creature.Creature   { return s.cfg.Team }

// Active returns the player's acting creature.
func (s *Session) Active() *creature.Creature {
	return s.cfg.Team[s.cfg.ActiveIndex]
}

// Log returns the full ordered event log.
func (s *Session) Log() []Event { return s.log }

// Messages renders the event log as display lines.
func (s *Session) Messages() []string {
	out := make([]string, 0, len(s.log))
	for _, ev := range s.log {
		if msg := ev.Message(); msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

func (s *Session) emit(events *[]Event, ev Event) {
	s.log = append(s.log, ev)
	*events = append(*events, ev)
}

// Start heals the team and engages the first opponent. The first
// opponent's level matches the active creature's for fairness.
func (s *Session) Start(ctx context.Context) ([]Event, error) {
	if s.state != StateSetup {
		return nil, ErrBattleInProgress
	}
	if s.cfg.TotalOpponents < 1 {
		return nil, ErrOpponentCount
	}
	if s.cfg.ActiveIndex < 0 || s.cfg.ActiveIndex >= len(s.cfg.Team) {
		return nil, ErrNoEligible
	}
	for _, c := range s.cfg.Team {
		c.Restore()
	}
	opp, err := s.cfg.Opponents.NextOpponent(ctx, s.Active().Level)
	if err != nil {
		// Stay in Setup; the caller surfaces the error and may retry.
		return nil, err
	}
	s.opponent = opp
	s.round = 1
	s.defeated = 0
	s.state = StateInProgress

	var events []Event
	s.emit(&events, EventBattleStart{
		Player:   SnapshotCombatant(s.Active()),
		Opponent: SnapshotCombatant(opp),
		Total:    s.cfg.TotalOpponents,
	})
	s.logger.Info("battle started",
		zap.String("player", s.Active().Name),
		zap.String("opponent", opp.Name),
		zap.Int("total_opponents", s.cfg.TotalOpponents))
	return events, nil
}

// UseMove resolves the player's chosen move, then the opponent's
// response. A move with no PP is rejected without consuming the turn.
func (s *Session) UseMove(ctx context.Context, slot int) ([]Event, error) {
	if s.state != StateInProgress {
		return nil, ErrWrongState
	}
	active := s.Active()
	if slot < 0 || slot >= len(active.Moves) {
		return nil, ErrBadMoveSlot
	}
	mv := &active.Moves[slot]
	if mv.PP <= 0 {
		return nil, ErrNoPP
	}

	var events []Event
	tick := ApplyStatusPreTurn(active, s.rng)
	s.emitStatusTick(&events, active, tick)
	switch {
	case tick.Fainted:
		s.emit(&events, EventFaint{Name: active.Name})
		s.playerFainted()
		return events, nil
	case tick.SkipTurn:
		s.opponentAct(ctx, &events)
		return events, nil
	}

	mv.PP--
	s.emit(&events, EventMoveUsed{Attacker: active.Name, Move: mv.Name})
	res := ResolveMove(active, s.opponent, mv, s.rng)
	s.emitMoveResult(&events, active, s.opponent, res)
	if s.opponent.IsFainted() {
		s.emit(&events, EventFaint{Name: s.opponent.Name, IsOpponent: true})
		s.opponentFainted(ctx, &events)
		return events, nil
	}
	s.opponentAct(ctx, &events)
	return events, nil
}

// Switch changes the active creature. Voluntary switches cost the turn;
// forced switches after a faint resume with the opponent's free action.
func (s *Session) Switch(ctx context.Context, index int) ([]Event, error) {
	forced := s.state == StateAwaitingSwitch
	if s.state != StateInProgress && !forced {
		return nil, ErrWrongState
	}
	if index < 0 || index >= len(s.cfg.Team) {
		return nil, ErrBadTeamIndex
	}
	target := s.cfg.Team[index]
	if target.IsFainted() {
		return nil, ErrTargetFainted
	}
	if index == s.cfg.ActiveIndex && !forced {
		return nil, ErrAlreadyActive
	}

	s.cfg.ActiveIndex = index
	s.state = StateInProgress

	var events []Event
	s.emit(&events, EventSwitched{Name: target.Name, Forced: forced})
	s.opponentAct(ctx, &events)
	return events, nil
}

// UseItem applies a consumable mid-battle. targetIndex selects the team
// member; healing items only ever apply to the active creature, which
// the item store enforces. Costs the player's turn.
func (s *Session) UseItem(ctx context.Context, kind string, targetIndex int) ([]Event, error) {
	if s.state != StateInProgress {
		return nil, ErrWrongState
	}
	if targetIndex < 0 || targetIndex >= len(s.cfg.Team) {
		return nil, ErrBadTeamIndex
	}
	target := s.cfg.Team[targetIndex]
	if err := s.cfg.Items.UseOn(kind, target, targetIndex == s.cfg.ActiveIndex); err != nil {
		return nil, err
	}

	var events []Event
	s.emit(&events, EventItemUsed{Kind: kind, Target: target.Name})
	s.opponentAct(ctx, &events)
	return events, nil
}

// Run attempts to flee. Success ends the battle as Fled with no loss
// recorded; failure gives the opponent a free action.
func (s *Session) Run(ctx context.Context) ([]Event, error) {
	if s.state != StateInProgress {
		return nil, ErrWrongState
	}
	var events []Event
	if s.rng.Intn(100) < EscapeChance {
		s.state = StateFled
		s.emit(&events, EventBattleEnd{Result: "fled", Defeated: s.defeated})
		return events, nil
	}
	s.emit(&events, EventEscapeFailed{})
	s.opponentAct(ctx, &events)
	return events, nil
}

// RecoveryOptions lists the choices available at the recovery decision
// point. Accept-defeat is always present.
func (s *Session) RecoveryOptions() []RecoveryOption {
	opts := make([]RecoveryOption, 0, 5)
	if s.cfg.Revive != nil && s.cfg.Revive.FreeReviveAvailable() {
		opts = append(opts, RecoverFreeRevive)
	}
	if s.cfg.Items != nil && s.cfg.Items.Count(model.ItemRevival) > 0 {
		opts = append(opts, RecoverRevival)
	}
	if s.cfg.Backup != nil && len(s.cfg.Team) < MaxTeam {
		opts = append(opts, RecoverEmergency)
	}
	if s.cfg.Wallet != nil && s.cfg.Wallet.Coins() >= s.cfg.TeamHealCost {
		opts = append(opts, RecoverHealTeam)
	}
	return append(opts, RecoverDefeat)
}

// Recover resolves the recovery decision point. Any non-defeat option
// resumes InProgress on the player's turn.
func (s *Session) Recover(ctx context.Context, opt RecoveryOption) ([]Event, error) {
	if s.state != StateAwaitingRecovery {
		return nil, ErrWrongState
	}
	available := false
	for _, o := range s.RecoveryOptions() {
		if o == opt {
			available = true
			break
		}
	}
	if !available {
		return nil, ErrBadOption
	}

	var events []Event
	switch opt {
	case RecoverFreeRevive:
		s.cfg.Revive.ConsumeFreeRevive()
		active := s.Active()
		active.Status = creature.StatusNone
		active.Heal(active.MaxHP() / 2)
	case RecoverRevival:
		if err := s.cfg.Items.UseOn(model.ItemRevival, s.Active(), true); err != nil {
			return nil, err
		}
	case RecoverEmergency:
		backup := s.cfg.Backup()
		s.cfg.Team = append(s.cfg.Team, backup)
		s.cfg.ActiveIndex = len(s.cfg.Team) - 1
		s.emit(&events, EventSwitched{Name: backup.Name, Forced: true})
	case RecoverHealTeam:
		if err := s.cfg.Wallet.Spend(s.cfg.TeamHealCost); err != nil {
			return nil, err
		}
		for _, c := range s.cfg.Team {
			c.Restore()
		}
	case RecoverDefeat:
		s.state = StateDefeat
		s.emit(&events, EventRecovery{Option: string(opt)})
		s.emit(&events, EventBattleEnd{Result: "defeat", Defeated: s.defeated})
		return events, nil
	}
	s.state = StateInProgress
	s.emit(&events, EventRecovery{Option: string(opt)})
	return events, nil
}

// opponentAct runs the opponent's half of the round: status pre-turn,
// then a randomly chosen usable move against the active creature.
func (s *Session) opponentAct(ctx context.Context, events *[]Event) {
	opp := s.opponent
	tick := ApplyStatusPreTurn(opp, s.rng)
	s.emitStatusTick(events, opp, tick)
	switch {
	case tick.Fainted:
		s.emit(events, EventFaint{Name: opp.Name, IsOpponent: true})
		s.opponentFainted(ctx, events)
		return
	case tick.SkipTurn:
		return
	}

	mv := s.pickOpponentMove()
	if mv.PP > 0 {
		mv.PP--
	}
	s.emit(events, EventMoveUsed{Attacker: opp.Name, Move: mv.Name})
	res := ResolveMove(opp, s.Active(), mv, s.rng)
	s.emitMoveResult(events, opp, s.Active(), res)
	if s.Active().IsFainted() {
		s.emit(events, EventFaint{Name: s.Active().Name})
		s.playerFainted()
	}
}

// pickOpponentMove selects a random move with PP remaining, falling
// back to the default move when everything is exhausted.
func (s *Session) pickOpponentMove() *creature.Move {
	usable := make([]int, 0, len(s.opponent.Moves))
	for i := range s.opponent.Moves {
		if s.opponent.Moves[i].PP > 0 {
			usable = append(usable, i)
		}
	}
	if len(usable) == 0 {
		mv := creature.DefaultMove
		return &mv
	}
	return &s.opponent.Moves[usable[s.rng.Intn(len(usable))]]
}

// opponentFainted awards XP, then either ends the battle in victory or
// rotates in the next opponent. A rotation fetch failure terminates the
// battle as a non-victory outcome with no loss recorded.
func (s *Session) opponentFainted(ctx context.Context, events *[]Event) {
	s.defeated++
	amount := s.opponent.Level * 15 * s.round / 2
	if s.cfg.Progression != nil {
		report, err := s.cfg.Progression.AwardXP(ctx, s.Active(), amount)
		if err != nil {
			s.logger.Warn("xp award failed", zap.Error(err))
		} else if report != nil {
			s.emitXPReport(events, report)
		}
	}

	if s.defeated >= s.cfg.TotalOpponents {
		s.state = StateVictory
		s.emit(events, EventBattleEnd{Result: "victory", Defeated: s.defeated})
		return
	}

	s.round++
	opp, err := s.cfg.Opponents.NextOpponent(ctx, s.Active().Level)
	if err != nil {
		s.logger.Warn("opponent rotation failed", zap.Error(err))
		s.state = StateFled
		s.emit(events, EventBattleEnd{Result: "fled", Defeated: s.defeated, Reason: "next opponent unavailable"})
		return
	}
	s.opponent = opp
	s.emit(events, EventNextOpponent{Opponent: SnapshotCombatant(opp), Round: s.round})
}

// playerFainted pauses for a forced switch if a living member remains,
// otherwise enters the recovery decision point.
func (s *Session) playerFainted() {
	for i, c := range s.cfg.Team {
		if i != s.cfg.ActiveIndex && !c.IsFainted() {
			s.state = StateAwaitingSwitch
			return
		}
	}
	s.state = StateAwaitingRecovery
}

func (s *Session) emitStatusTick(events *[]Event, c *creature.Creature, tick StatusTick) {
	if tick.Status == creature.StatusNone {
		return
	}
	if tick.Damage == 0 && !tick.SkipTurn && !tick.Cleared {
		return
	}
	s.emit(events, EventStatusTick{
		Target:  c.Name,
		Status:  string(tick.Status),
		Damage:  tick.Damage,
		Skipped: tick.SkipTurn,
		Cleared: tick.Cleared,
	})
}

func (s *Session) emitMoveResult(events *[]Event, attacker, defender *creature.Creature, res MoveResult) {
	if res.Missed {
		s.emit(events, EventMoveMissed{Attacker: attacker.Name})
		return
	}
	if res.Damage > 0 || res.Effectiveness == 0 {
		s.emit(events, EventDamage{
			Target:        defender.Name,
			Damage:        res.Damage,
			HPAfter:       defender.HP,
			Critical:      res.Critical,
			Effectiveness: res.Effectiveness,
		})
	}
	if res.InflictedStatus != creature.StatusNone {
		s.emit(events, EventStatusInflicted{Target: defender.Name, Status: string(res.InflictedStatus)})
	}
}

func (s *Session) emitXPReport(events *[]Event, report *XPReport) {
	if report.Amount <= 0 {
		return
	}
	s.emit(events, EventXPAwarded{Name: s.Active().Name, Amount: report.Amount})
	if report.LevelsGained > 0 {
		s.emit(events, EventLevelUp{Name: s.Active().Name, NewLevel: report.NewLevel})
	}
	if report.EvolvedTo != "" {
		s.emit(events, EventEvolved{From: report.EvolvedFrom, Into: report.EvolvedTo})
	}
	for _, mv := range report.LearnedMoves {
		s.emit(events, EventMoveLearned{Name: s.Active().Name, Move: mv})
	}
	for _, mv := range report.OfferedMoves {
		s.emit(events, EventMoveOffered{Name: s.Active().Name, Move: mv})
	}
}

package battle

import (
	"fmt"
	"strings"

	"github.com/pokechain/arena/game/creature"
)

// Event is one entry in a battle's ordered event stream. The engine
// produces events; playback pacing belongs to the presentation layer.
type Event interface {
	EventType() string
	Message() string
}

// CombatantSnapshot is the wire form of one combatant's visible state.
type CombatantSnapshot struct {
	SpeciesID int      `json:"species_id"`
	Name      string   `json:"name"`
	Level     int      `json:"level"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Status    string   `json:"status,omitempty"`
	Types     []string `json:"types"`
}

// SnapshotCombatant captures a creature's visible battle state.
func SnapshotCombatant(c *creature.Creature) CombatantSnapshot {
	return CombatantSnapshot{
		SpeciesID: c.SpeciesID,
		Name:      c.Name,
		Level:     c.Level,
		HP:        c.HP,
		MaxHP:     c.MaxHP(),
		Status:    string(c.Status),
		Types:     c.Types,
	}
}

func upper(name string) string { return strings.ToUpper(name) }

// --- Concrete event types ---

type EventBattleStart struct {
	Player   CombatantSnapshot `json:"player"`
	Opponent CombatantSnapshot `json:"opponent"`
	Total    int               `json:"total_opponents"`
}

func (EventBattleStart) EventType() string { return "battle_start" }
func (e EventBattleStart) Message() string {
	return fmt.Sprintf("Battle started! %s vs %s!", upper(e.Player.Name), upper(e.Opponent.Name))
}

type EventMoveUsed struct {
	Attacker string `json:"attacker"`
	Move     string `json:"move"`
}

func (EventMoveUsed) EventType() string { return "move_used" }
func (e EventMoveUsed) Message() string {
	return fmt.Sprintf("%s used %s!", upper(e.Attacker), upper(e.Move))
}

type EventMoveMissed struct {
	Attacker string `json:"attacker"`
}

func (EventMoveMissed) EventType() string { return "move_missed" }
func (e EventMoveMissed) Message() string {
	return fmt.Sprintf("%s's attack missed!", upper(e.Attacker))
}

type EventDamage struct {
	Target        string  `json:"target"`
	Damage        int     `json:"damage"`
	HPAfter       int     `json:"hp_after"`
	Critical      bool    `json:"critical"`
	Effectiveness float64 `json:"effectiveness"`
}

func (EventDamage) EventType() string { return "damage" }
func (e EventDamage) Message() string {
	msg := fmt.Sprintf("%s took %d damage!", upper(e.Target), e.Damage)
	if e.Critical {
		msg += " A critical hit!"
	}
	switch {
	case e.Effectiveness == 0:
		msg = fmt.Sprintf("It doesn't affect %s...", upper(e.Target))
	case e.Effectiveness > 1:
		msg += " It's super effective!"
	case e.Effectiveness < 1:
		msg += " It's not very effective..."
	}
	return msg
}

type EventStatusInflicted struct {
	Target string `json:"target"`
	Status string `json:"status"`
}

func (EventStatusInflicted) EventType() string { return "status_inflicted" }
func (e EventStatusInflicted) Message() string {
	switch creature.Status(e.Status) {
	case creature.StatusPoison:
		return fmt.Sprintf("%s was poisoned!", upper(e.Target))
	case creature.StatusBurn:
		return fmt.Sprintf("%s was burned!", upper(e.Target))
	case creature.StatusParalysis:
		return fmt.Sprintf("%s is paralyzed! It may be unable to move!", upper(e.Target))
	case creature.StatusSleep:
		return fmt.Sprintf("%s fell asleep!", upper(e.Target))
	case creature.StatusFreeze:
		return fmt.Sprintf("%s was frozen solid!", upper(e.Target))
	}
	return fmt.Sprintf("%s was afflicted by %s!", upper(e.Target), e.Status)
}

type EventStatusTick struct {
	Target  string `json:"target"`
	Status  string `json:"status"`
	Damage  int    `json:"damage,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Cleared bool   `json:"cleared,omitempty"`
}

func (EventStatusTick) EventType() string { return "status_tick" }
func (e EventStatusTick) Message() string {
	name := upper(e.Target)
	switch creature.Status(e.Status) {
	case creature.StatusPoison:
		return fmt.Sprintf("%s is hurt by poison!", name)
	case creature.StatusBurn:
		return fmt.Sprintf("%s is hurt by its burn!", name)
	case creature.StatusParalysis:
		if e.Skipped {
			return fmt.Sprintf("%s is fully paralyzed!", name)
		}
	case creature.StatusSleep:
		if e.Cleared {
			return fmt.Sprintf("%s woke up!", name)
		}
		return fmt.Sprintf("%s is fast asleep.", name)
	case creature.StatusFreeze:
		if e.Cleared {
			return fmt.Sprintf("%s thawed out!", name)
		}
		return fmt.Sprintf("%s is frozen solid!", name)
	}
	return ""
}

type EventFaint struct {
	Name       string `json:"name"`
	IsOpponent bool   `json:"is_opponent"`
}

func (EventFaint) EventType() string { return "faint" }
func (e EventFaint) Message() string { return fmt.Sprintf("%s fainted!", upper(e.Name)) }

type EventXPAwarded struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func (EventXPAwarded) EventType() string { return "xp_awarded" }
func (e EventXPAwarded) Message() string {
	return fmt.Sprintf("%s gained %d XP!", upper(e.Name), e.Amount)
}

type EventLevelUp struct {
	Name     string `json:"name"`
	NewLevel int    `json:"new_level"`
}

func (EventLevelUp) EventType() string { return "level_up" }
func (e EventLevelUp) Message() string {
	return fmt.Sprintf("%s grew to level %d!", upper(e.Name), e.NewLevel)
}

type EventEvolved struct {
	From string `json:"from"`
	Into string `json:"into"`
}

func (EventEvolved) EventType() string { return "evolved" }
func (e EventEvolved) Message() string {
	return fmt.Sprintf("%s evolved into %s!", upper(e.From), upper(e.Into))
}

type EventMoveLearned struct {
	Name string `json:"name"`
	Move string `json:"move"`
}

func (EventMoveLearned) EventType() string { return "move_learned" }
func (e EventMoveLearned) Message() string {
	return fmt.Sprintf("%s learned %s!", upper(e.Name), upper(e.Move))
}

type EventMoveOffered struct {
	Name string `json:"name"`
	Move string `json:"move"`
}

func (EventMoveOffered) EventType() string { return "move_offered" }
func (e EventMoveOffered) Message() string {
	return fmt.Sprintf("%s wants to learn %s, but already knows four moves.", upper(e.Name), upper(e.Move))
}

type EventNextOpponent struct {
	Opponent CombatantSnapshot `json:"opponent"`
	Round    int               `json:"round"`
}

func (EventNextOpponent) EventType() string { return "next_opponent" }
func (e EventNextOpponent) Message() string {
	return fmt.Sprintf("Round %d: a level %d %s appeared!", e.Round, e.Opponent.Level, upper(e.Opponent.Name))
}

type EventSwitched struct {
	Name   string `json:"name"`
	Forced bool   `json:"forced"`
}

func (EventSwitched) EventType() string { return "switched" }
func (e EventSwitched) Message() string { return fmt.Sprintf("Go, %s!", upper(e.Name)) }

type EventItemUsed struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

func (EventItemUsed) EventType() string { return "item_used" }
func (e EventItemUsed) Message() string {
	return fmt.Sprintf("Used %s on %s!", e.Kind, upper(e.Target))
}

type EventEscapeFailed struct{}

func (EventEscapeFailed) EventType() string { return "escape_failed" }
func (EventEscapeFailed) Message() string   { return "Couldn't escape!" }

type EventRecovery struct {
	Option string `json:"option"`
}

func (EventRecovery) EventType() string { return "recovery" }
func (e EventRecovery) Message() string {
	return fmt.Sprintf("Recovery: %s.", e.Option)
}

type EventBattleEnd struct {
	Result   string `json:"result"` // "victory" | "defeat" | "fled"
	Defeated int    `json:"defeated"`
	Reason   string `json:"reason,omitempty"`
}

func (EventBattleEnd) EventType() string { return "battle_end" }
func (e EventBattleEnd) Message() string {
	switch e.Result {
	case "victory":
		return fmt.Sprintf("Victory! You defeated %d opponent(s)!", e.Defeated)
	case "defeat":
		return "Defeat! Better luck next time, trainer!"
	default:
		if e.Reason != "" {
			return "The battle was called off: " + e.Reason
		}
		return "You ran from the battle!"
	}
}

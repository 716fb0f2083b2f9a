package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/player"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/game/roster"
	"github.com/pokechain/arena/snapshot"
)

// fail maps domain errors onto HTTP statuses with the error text as the
// user-facing message. Unknown errors become opaque 500s.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		status, msg = http.StatusPreconditionFailed, "profile not created yet"
	case errors.Is(err, catalog.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, catalog.ErrUnavailable):
		status, msg = http.StatusBadGateway, err.Error()
	case errors.Is(err, progression.ErrInsufficientCoins):
		status, msg = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, battle.ErrBattleInProgress),
		errors.Is(err, player.ErrInBattle),
		errors.Is(err, player.ErrHasStarter),
		errors.Is(err, player.ErrProfileDup),
		errors.Is(err, player.ErrNameTaken):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, player.ErrNotInBattle),
		errors.Is(err, player.ErrNoPendingOffer),
		errors.Is(err, player.ErrBadListing):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, player.ErrWrongPin):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, battle.ErrWrongState),
		errors.Is(err, battle.ErrBadMoveSlot),
		errors.Is(err, battle.ErrNoPP),
		errors.Is(err, battle.ErrBadTeamIndex),
		errors.Is(err, battle.ErrTargetFainted),
		errors.Is(err, battle.ErrAlreadyActive),
		errors.Is(err, battle.ErrNoEligible),
		errors.Is(err, battle.ErrBadOption),
		errors.Is(err, battle.ErrOpponentCount),
		errors.Is(err, player.ErrNoRoster),
		errors.Is(err, player.ErrBadStarter),
		errors.Is(err, player.ErrBadName),
		errors.Is(err, player.ErrBadItemKind),
		errors.Is(err, player.ErrBadQty),
		errors.Is(err, player.ErrNotOwned),
		errors.Is(err, roster.ErrBadIndex),
		errors.Is(err, roster.ErrFainted),
		errors.Is(err, roster.ErrAlreadyActive),
		errors.Is(err, roster.ErrEmptyTeam),
		errors.Is(err, roster.ErrOutOfStock),
		errors.Is(err, roster.ErrUnknownItem),
		errors.Is(err, roster.ErrTargetFull),
		errors.Is(err, roster.ErrTargetFainted),
		errors.Is(err, roster.ErrTargetNotDown),
		errors.Is(err, roster.ErrNotActiveTarget),
		errors.Is(err, roster.ErrCaptureUseless),
		errors.Is(err, progression.ErrBadSlot),
		errors.Is(err, progression.ErrOfferTarget):
		status, msg = http.StatusBadRequest, err.Error()
	}

	c.JSON(status, gin.H{"error": msg})
}

// moveView is the wire form of one move slot.
type moveView struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Power       int    `json:"power"`
	Accuracy    int    `json:"accuracy"`
	DamageClass string `json:"damage_class"`
	PP          int    `json:"pp"`
	MaxPP       int    `json:"max_pp"`
}

// creatureView is the wire form of one owned creature.
type creatureView struct {
	ID        int64      `json:"id"`
	SpeciesID int        `json:"species_id"`
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	XP        int        `json:"xp"`
	NextXP    int        `json:"next_xp"`
	HP        int        `json:"hp"`
	MaxHP     int        `json:"max_hp"`
	Status    string     `json:"status,omitempty"`
	Types     []string   `json:"types"`
	Moves     []moveView `json:"moves"`
}

func viewCreature(c *creature.Creature) creatureView {
	v := creatureView{
		ID:        c.ID,
		SpeciesID: c.SpeciesID,
		Name:      c.Name,
		Level:     c.Level,
		XP:        c.XP,
		NextXP:    progression.RequiredXP(c.Level),
		HP:        c.HP,
		MaxHP:     c.MaxHP(),
		Status:    string(c.Status),
		Types:     c.Types,
	}
	for i := range c.Moves {
		m := &c.Moves[i]
		v.Moves = append(v.Moves, moveView{
			Name:        m.Name,
			Type:        m.Type,
			Power:       m.Power,
			Accuracy:    m.Accuracy,
			DamageClass: m.DamageClass,
			PP:          m.PP,
			MaxPP:       m.MaxPP,
		})
	}
	return v
}

// eventViews renders battle events with their display text attached.
func eventViews(events []battle.Event) []gin.H {
	out := make([]gin.H, 0, len(events))
	for _, ev := range events {
		out = append(out, gin.H{
			"type":    ev.EventType(),
			"message": ev.Message(),
			"data":    ev,
		})
	}
	return out
}

package progression

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/creature"
)

var (
	ErrNoOffer     = errors.New("progression: no pending move offer")
	ErrBadSlot     = errors.New("progression: invalid move slot")
	ErrOfferTarget = errors.New("progression: offer does not match creature")
)

// RequiredXP is the XP a creature must bank at the given level before
// it advances to the next one.
func RequiredXP(level int) int {
	n := level + 1
	return n * n * n
}

// MoveOffer is a deferred move-replacement choice: the creature already
// knows four moves and a new one became learnable. The owner resolves
// it with ResolveMoveOffer.
type MoveOffer struct {
	CreatureID int64         `json:"creature_id"`
	Creature   string        `json:"creature"`
	Move       creature.Move `json:"move"`
}

// Result is everything one XP award did.
type Result struct {
	Report battle.XPReport
	Offers []MoveOffer
}

// Engine applies XP, level-ups, evolution, and move learning. It is
// stateless and shared across profiles; pending offers live with the
// profile that owns the creature.
type Engine struct {
	catalog *catalog.Client
	logger  *zap.Logger
}

func NewEngine(cat *catalog.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: cat, logger: logger}
}

// AwardXP adds experience and resolves any resulting level-ups. A
// fainted creature banks nothing. Evolution and move-learning lookups
// that fail abort only that step; the level-up itself always lands.
func (e *Engine) AwardXP(ctx context.Context, c *creature.Creature, amount int) (*Result, error) {
	res := &Result{Report: battle.XPReport{NewLevel: c.Level}}
	if c.IsFainted() || amount <= 0 {
		return res, nil
	}
	res.Report.Amount = amount
	c.XP += amount
	for c.XP >= RequiredXP(c.Level) {
		c.XP -= RequiredXP(c.Level)
		e.levelUp(ctx, c, res)
		res.Report.LevelsGained++
		res.Report.NewLevel = c.Level
	}
	return res, nil
}

// levelUp advances one level: full heal at the new max, evolution check,
// then newly learnable moves.
func (e *Engine) levelUp(ctx context.Context, c *creature.Creature, res *Result) {
	c.Level++
	c.HealFull()
	e.checkEvolution(ctx, c, res)
	e.checkLearnset(ctx, c, res)
}

func (e *Engine) checkEvolution(ctx context.Context, c *creature.Creature, res *Result) {
	evo, err := e.catalog.GetEvolution(ctx, c.SpeciesID)
	if err != nil {
		e.logger.Warn("evolution lookup failed",
			zap.Int("species_id", c.SpeciesID), zap.Error(err))
		return
	}
	if evo == nil || c.Level < evo.MinLevel {
		return
	}
	next, err := e.catalog.GetSpecies(ctx, strconv.Itoa(evo.NextSpeciesID))
	if err != nil {
		e.logger.Warn("evolution target lookup failed",
			zap.Int("species_id", evo.NextSpeciesID), zap.Error(err))
		return
	}
	res.Report.EvolvedFrom = c.Name
	c.Evolve(next)
	res.Report.EvolvedTo = c.Name
	e.logger.Info("creature evolved",
		zap.String("from", res.Report.EvolvedFrom),
		zap.String("into", c.Name),
		zap.Int("level", c.Level))
}

// checkLearnset learns moves unlocked at the creature's new level. With
// a free slot the move is learned outright; at four moves it becomes a
// pending replacement offer instead.
func (e *Engine) checkLearnset(ctx context.Context, c *creature.Creature, res *Result) {
	learnset, err := e.catalog.GetLearnset(ctx, c.SpeciesID)
	if err != nil {
		e.logger.Warn("learnset lookup failed",
			zap.Int("species_id", c.SpeciesID), zap.Error(err))
		return
	}
	for _, entry := range learnset {
		if entry.Level != c.Level || c.Learned[entry.MoveName] {
			continue
		}
		mt, err := e.catalog.GetMove(ctx, entry.MoveName)
		if err != nil {
			e.logger.Warn("move lookup failed",
				zap.String("move", entry.MoveName), zap.Error(err))
			continue
		}
		mv := creature.MoveFromTemplate(mt)
		c.Learned[entry.MoveName] = true
		if slot := freeSlot(c); slot >= 0 {
			c.Moves[slot] = mv
			res.Report.LearnedMoves = append(res.Report.LearnedMoves, mv.Name)
			continue
		}
		res.Offers = append(res.Offers, MoveOffer{
			CreatureID: c.ID,
			Creature:   c.Name,
			Move:       mv,
		})
		res.Report.OfferedMoves = append(res.Report.OfferedMoves, mv.Name)
	}
}

// freeSlot finds a move slot still holding the padding filler, if any.
// Padding is tracked per slot; a learned move that happens to share the
// filler's name never blocks its slots.
func freeSlot(c *creature.Creature) int {
	for i := range c.Moves {
		if c.Moves[i].Padding {
			return i
		}
	}
	return -1
}

// ResolveMoveOffer applies the owner's decision on a pending offer.
// replaceSlot selects which known move to discard; accept=false forgoes
// the new move entirely.
func ResolveMoveOffer(c *creature.Creature, offer MoveOffer, replaceSlot int, accept bool) error {
	if offer.CreatureID != c.ID {
		return ErrOfferTarget
	}
	if !accept {
		return nil
	}
	if replaceSlot < 0 || replaceSlot >= len(c.Moves) {
		return ErrBadSlot
	}
	c.Moves[replaceSlot] = offer.Move
	return nil
}

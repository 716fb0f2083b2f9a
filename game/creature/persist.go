package creature

import (
	"encoding/json"

	"github.com/pokechain/arena/model"
	"gorm.io/datatypes"
)

// ToModel converts a runtime creature into its persisted row form.
// teamSlot is 0-5 for team members, -1 for storage.
func ToModel(c *Creature, profileID int64, teamSlot int) *model.Creature {
	ivs, _ := json.Marshal(c.IVs)
	evs, _ := json.Marshal(c.EVs)
	types, _ := json.Marshal(c.Types)
	moves, _ := json.Marshal(c.Moves)
	learned := make([]string, 0, len(c.Learned))
	for name := range c.Learned {
		learned = append(learned, name)
	}
	learnedJSON, _ := json.Marshal(learned)

	return &model.Creature{
		ID:        c.ID,
		ProfileID: profileID,
		SpeciesID: c.SpeciesID,
		Name:      c.Name,
		Level:     c.Level,
		XP:        c.XP,
		CurrentHP: c.HP,
		BaseHP:    c.Base[StatHP],
		BaseAtk:   c.Base[StatAttack],
		BaseDef:   c.Base[StatDefense],
		BaseSpAtk: c.Base[StatSpAttack],
		BaseSpDef: c.Base[StatSpDefense],
		BaseSpd:   c.Base[StatSpeed],
		IVs:       datatypes.JSON(ivs),
		EVs:       datatypes.JSON(evs),
		Types:     datatypes.JSON(types),
		Status:    string(c.Status),
		Moves:     datatypes.JSON(moves),
		Learned:   datatypes.JSON(learnedJSON),
		TeamSlot:  teamSlot,
	}
}

// FromModel rebuilds a runtime creature from a persisted row.
func FromModel(row *model.Creature) *Creature {
	c := &Creature{
		ID:        row.ID,
		SpeciesID: row.SpeciesID,
		Name:      row.Name,
		Level:     row.Level,
		XP:        row.XP,
		HP:        row.CurrentHP,
		Status:    Status(row.Status),
		Learned:   make(map[string]bool),
	}
	c.Base = [6]int{row.BaseHP, row.BaseAtk, row.BaseDef, row.BaseSpAtk, row.BaseSpDef, row.BaseSpd}
	_ = json.Unmarshal(row.IVs, &c.IVs)
	_ = json.Unmarshal(row.EVs, &c.EVs)
	_ = json.Unmarshal(row.Types, &c.Types)
	_ = json.Unmarshal(row.Moves, &c.Moves)

	var learned []string
	_ = json.Unmarshal(row.Learned, &learned)
	for _, name := range learned {
		c.Learned[name] = true
	}

	PadMoves(c)
	if c.HP > c.MaxHP() {
		c.HP = c.MaxHP()
	}
	return c
}

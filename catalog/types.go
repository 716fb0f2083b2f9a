package catalog

import "errors"

// Errors returned by the catalog client. Callers treat NotFound as a
// user-visible "no such species/move" and Unavailable as a transient
// upstream failure.
var (
	ErrNotFound    = errors.New("catalog: not found")
	ErrUnavailable = errors.New("catalog: unavailable")
)

// Species is the normalized static record for one species. Immutable
// upstream, safe to cache forever within a process lifetime.
type Species struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`      // 1-2 type names
	BaseStats [6]int   `json:"base_stats"` // HP, Atk, Def, SpAtk, SpDef, Spd
	MoveNames []string `json:"move_names"` // first learnable moves, catalog order
}

// MoveTemplate is the normalized static record for one move. Upstream
// nulls are filled with defaults: power 40, accuracy 100, pp 10.
type MoveTemplate struct {
	Name          string `json:"name"`
	Power         int    `json:"power"` // 0 = non-damaging status move
	Accuracy      int    `json:"accuracy"`
	PP            int    `json:"pp"`
	Type          string `json:"type"`
	DamageClass   string `json:"damage_class"` // "physical" | "special" | "status"
	Ailment       string `json:"ailment"`      // "" = none
	AilmentChance int    `json:"ailment_chance"`
	Effect        string `json:"effect"`
}

// Evolution describes the next stage for a species, if any.
type Evolution struct {
	NextSpeciesID int    `json:"next_species_id"`
	NextName      string `json:"next_name"`
	MinLevel      int    `json:"min_level"`
}

// LearnableMove is one level-up learnset entry.
type LearnableMove struct {
	MoveName string `json:"move_name"`
	Level    int    `json:"level"`
}

// StarterIDs lists the species offered during starter selection.
var StarterIDs = []int{1, 4, 7, 25, 152, 155, 158, 252, 255, 258}

// LegendaryIDs gates the own-a-legendary achievement.
var LegendaryIDs = map[int]bool{144: true, 145: true, 146: true, 150: true, 151: true}

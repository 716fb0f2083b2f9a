package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pokechain/arena/cache"
	"go.uber.org/zap"
)

// Defaults applied when the upstream record omits a field.
const (
	DefaultPower    = 40
	DefaultAccuracy = 100
	DefaultPP       = 10
)

// Client fetches species/move/evolution data from a PokeAPI-compatible
// catalog service. Every lookup is idempotent and cached without expiry;
// upstream data is immutable.
type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache
	logger  *zap.Logger
}

// New creates a catalog Client.
func New(baseURL string, timeout time.Duration, c cache.Cache, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   c,
		logger:  logger,
	}
}

// ---- raw upstream shapes ----

type pokemonPayload struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
		VersionGroupDetails []struct {
			LevelLearnedAt  int `json:"level_learned_at"`
			MoveLearnMethod struct {
				Name string `json:"name"`
			} `json:"move_learn_method"`
		} `json:"version_group_details"`
	} `json:"moves"`
}

type movePayload struct {
	Name     string `json:"name"`
	Power    *int   `json:"power"`
	Accuracy *int   `json:"accuracy"`
	PP       *int   `json:"pp"`
	Type     struct {
		Name string `json:"name"`
	} `json:"type"`
	DamageClass struct {
		Name string `json:"name"`
	} `json:"damage_class"`
	Meta *struct {
		Ailment struct {
			Name string `json:"name"`
		} `json:"ailment"`
		AilmentChance int `json:"ailment_chance"`
	} `json:"meta"`
	EffectEntries []struct {
		ShortEffect string `json:"short_effect"`
	} `json:"effect_entries"`
}

type speciesPayload struct {
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type chainNode struct {
	Species struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"species"`
	EvolutionDetails []struct {
		MinLevel *int `json:"min_level"`
	} `json:"evolution_details"`
	EvolvesTo []chainNode `json:"evolves_to"`
}

type chainPayload struct {
	Chain chainNode `json:"chain"`
}

// statOrder maps upstream stat names to our [6]int layout.
var statOrder = map[string]int{
	"hp":              0,
	"attack":          1,
	"defense":         2,
	"special-attack":  3,
	"special-defense": 4,
	"speed":           5,
}

// ailments we model; everything else upstream is ignored.
var knownAilments = map[string]bool{
	"poison":    true,
	"burn":      true,
	"paralysis": true,
	"sleep":     true,
	"freeze":    true,
}

// GetSpecies fetches one species record by id or name.
func (c *Client) GetSpecies(ctx context.Context, idOrName string) (*Species, error) {
	key := "catalog:pokemon:" + idOrName
	if sp := new(Species); c.fromCache(ctx, key, sp) {
		return sp, nil
	}

	var raw pokemonPayload
	if err := c.getJSON(ctx, "/pokemon/"+idOrName, &raw); err != nil {
		return nil, err
	}

	sp := &Species{ID: raw.ID, Name: raw.Name}
	for _, st := range raw.Stats {
		if idx, ok := statOrder[st.Stat.Name]; ok {
			sp.BaseStats[idx] = st.BaseStat
		}
	}
	for _, t := range raw.Types {
		sp.Types = append(sp.Types, t.Type.Name)
	}
	for _, m := range raw.Moves {
		sp.MoveNames = append(sp.MoveNames, m.Move.Name)
	}

	c.toCache(ctx, key, sp)
	// The same record answers id- and name-keyed lookups.
	c.toCache(ctx, "catalog:pokemon:"+strconv.Itoa(sp.ID), sp)
	c.toCache(ctx, "catalog:pokemon:"+sp.Name, sp)
	return sp, nil
}

// GetMove fetches one move record by name.
func (c *Client) GetMove(ctx context.Context, name string) (*MoveTemplate, error) {
	key := "catalog:move:" + name
	if mv := new(MoveTemplate); c.fromCache(ctx, key, mv) {
		return mv, nil
	}

	var raw movePayload
	if err := c.getJSON(ctx, "/move/"+name, &raw); err != nil {
		return nil, err
	}

	mv := &MoveTemplate{
		Name:        raw.Name,
		Power:       DefaultPower,
		Accuracy:    DefaultAccuracy,
		PP:          DefaultPP,
		Type:        raw.Type.Name,
		DamageClass: raw.DamageClass.Name,
		Effect:      "Deals damage",
	}
	if raw.Power != nil {
		mv.Power = *raw.Power
	}
	if raw.Accuracy != nil {
		mv.Accuracy = *raw.Accuracy
	}
	if raw.PP != nil {
		mv.PP = *raw.PP
	}
	// Status-class moves carry no power even when upstream omits the field.
	if raw.DamageClass.Name == "status" {
		mv.Power = 0
	}
	if raw.Meta != nil && knownAilments[raw.Meta.Ailment.Name] {
		mv.Ailment = raw.Meta.Ailment.Name
		mv.AilmentChance = raw.Meta.AilmentChance
		if mv.AilmentChance == 0 {
			mv.AilmentChance = 100 // pure status moves always apply on hit
		}
	}
	if len(raw.EffectEntries) > 0 && raw.EffectEntries[0].ShortEffect != "" {
		mv.Effect = raw.EffectEntries[0].ShortEffect
	}

	c.toCache(ctx, key, mv)
	return mv, nil
}

// GetEvolution returns the next evolution stage for a species, or
// (nil, nil) when the species is final.
func (c *Client) GetEvolution(ctx context.Context, speciesID int) (*Evolution, error) {
	key := "catalog:evolution:" + strconv.Itoa(speciesID)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		if cached == "none" {
			return nil, nil
		}
		ev := new(Evolution)
		if json.Unmarshal([]byte(cached), ev) == nil {
			return ev, nil
		}
	}

	var sp speciesPayload
	if err := c.getJSON(ctx, "/pokemon-species/"+strconv.Itoa(speciesID), &sp); err != nil {
		return nil, err
	}
	chainID := idFromURL(sp.EvolutionChain.URL)
	if chainID == 0 {
		return nil, fmt.Errorf("%w: malformed evolution chain url %q", ErrUnavailable, sp.EvolutionChain.URL)
	}

	var chain chainPayload
	if err := c.getJSON(ctx, "/evolution-chain/"+strconv.Itoa(chainID), &chain); err != nil {
		return nil, err
	}

	ev := findNextStage(&chain.Chain, speciesID)
	if ev == nil {
		_ = c.cache.Set(ctx, key, "none", 0)
		return nil, nil
	}
	c.toCache(ctx, key, ev)
	return ev, nil
}

// GetLearnset returns the level-up learnset for a species, taken from
// the species record's version group details.
func (c *Client) GetLearnset(ctx context.Context, speciesID int) ([]LearnableMove, error) {
	key := "catalog:learnset:" + strconv.Itoa(speciesID)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var out []LearnableMove
		if json.Unmarshal([]byte(cached), &out) == nil {
			return out, nil
		}
	}

	var raw pokemonPayload
	if err := c.getJSON(ctx, "/pokemon/"+strconv.Itoa(speciesID), &raw); err != nil {
		return nil, err
	}

	var out []LearnableMove
	for _, m := range raw.Moves {
		for _, d := range m.VersionGroupDetails {
			if d.MoveLearnMethod.Name == "level-up" && d.LevelLearnedAt > 0 {
				out = append(out, LearnableMove{MoveName: m.Move.Name, Level: d.LevelLearnedAt})
				break
			}
		}
	}

	if data, err := json.Marshal(out); err == nil {
		_ = c.cache.Set(ctx, key, string(data), 0)
	}
	return out, nil
}

// findNextStage walks the evolution chain to the node for speciesID and
// returns its first next stage.
func findNextStage(node *chainNode, speciesID int) *Evolution {
	if idFromURL(node.Species.URL) == speciesID {
		if len(node.EvolvesTo) == 0 {
			return nil
		}
		next := node.EvolvesTo[0]
		ev := &Evolution{
			NextSpeciesID: idFromURL(next.Species.URL),
			NextName:      next.Species.Name,
		}
		for _, d := range next.EvolutionDetails {
			if d.MinLevel != nil {
				ev.MinLevel = *d.MinLevel
				break
			}
		}
		if ev.MinLevel == 0 {
			// Non-level evolutions (trade, stone) are out of scope here.
			return nil
		}
		return ev
	}
	for i := range node.EvolvesTo {
		if ev := findNextStage(&node.EvolvesTo[i], speciesID); ev != nil {
			return ev
		}
	}
	return nil
}

// idFromURL extracts the trailing numeric id from an API resource URL.
func idFromURL(url string) int {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	id, _ := strconv.Atoi(parts[len(parts)-1])
	return id
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d for %s", ErrUnavailable, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

func (c *Client) fromCache(ctx context.Context, key string, out interface{}) bool {
	if c.cache == nil {
		return false
	}
	v, err := c.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(v), out) == nil
}

func (c *Client) toCache(ctx context.Context, key string, v interface{}) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(data), 0); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

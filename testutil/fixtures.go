package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type obj = map[string]any

// Species fixtures served by the stub catalog. Stats follow the
// HP/Atk/Def/SpAtk/SpDef/Spd order.
var stubSpecies = map[string]obj{
	"1":  species(1, "bulbasaur", []string{"grass", "poison"}, [6]int{45, 49, 49, 65, 65, 45}, learn{"tackle", 1}, learn{"vine-whip", 3}, learn{"razor-leaf", 12}),
	"2":  species(2, "ivysaur", []string{"grass", "poison"}, [6]int{60, 62, 63, 80, 80, 60}, learn{"tackle", 1}, learn{"vine-whip", 3}, learn{"razor-leaf", 12}),
	"4":  species(4, "charmander", []string{"fire"}, [6]int{39, 52, 43, 60, 50, 65}, learn{"scratch", 1}, learn{"ember", 4}),
	"5":  species(5, "charmeleon", []string{"fire"}, [6]int{58, 64, 58, 80, 65, 80}, learn{"scratch", 1}, learn{"ember", 4}),
	"19": species(19, "rattata", []string{"normal"}, [6]int{30, 56, 35, 25, 35, 72}, learn{"tackle", 1}, learn{"hyper-fang", 7}),
	"20": species(20, "raticate", []string{"normal"}, [6]int{55, 81, 60, 50, 70, 97}, learn{"tackle", 1}, learn{"hyper-fang", 7}),
	"25": species(25, "pikachu", []string{"electric"}, [6]int{35, 55, 40, 50, 50, 90}, learn{"thunder-shock", 1}, learn{"thunder-wave", 4}),
}

var stubMoves = map[string]obj{
	"tackle":        move("tackle", ip(40), ip(100), ip(35), "normal", "physical", "", 0),
	"scratch":       move("scratch", ip(40), ip(100), ip(35), "normal", "physical", "", 0),
	"vine-whip":     move("vine-whip", ip(45), ip(100), ip(25), "grass", "physical", "", 0),
	"razor-leaf":    move("razor-leaf", ip(55), ip(95), ip(25), "grass", "physical", "", 0),
	"ember":         move("ember", ip(40), ip(100), ip(25), "fire", "special", "burn", 10),
	"thunder-shock": move("thunder-shock", ip(40), ip(100), ip(30), "electric", "special", "paralysis", 10),
	"hyper-fang":    move("hyper-fang", ip(80), ip(90), ip(15), "normal", "physical", "", 0),
	"thunder-wave":  move("thunder-wave", nil, ip(90), ip(20), "electric", "status", "paralysis", 0),
}

// speciesChain maps species id to its evolution chain id.
var speciesChain = map[string]int{"1": 1, "2": 1, "4": 2, "5": 2, "19": 7, "20": 7, "25": 10}

var stubChains = map[string]obj{
	"1":  chain(node(1, "bulbasaur", 0, node(2, "ivysaur", 16))),
	"2":  chain(node(4, "charmander", 0, node(5, "charmeleon", 16))),
	"7":  chain(node(19, "rattata", 0, node(20, "raticate", 20))),
	"10": chain(node(25, "pikachu", 0, node(26, "raichu", 0))), // stone evolution, no min_level
}

// stubByName lets /pokemon/<name> lookups resolve too.
var stubByName = func() map[string]obj {
	out := make(map[string]obj, len(stubSpecies))
	for _, sp := range stubSpecies {
		out[sp["name"].(string)] = sp
	}
	return out
}()

// StubCatalogServer serves PokeAPI-shaped fixture data over HTTP. The
// server is closed automatically when the test finishes.
func StubCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		var body obj
		switch {
		case strings.HasPrefix(r.URL.Path, "/pokemon-species/"):
			if cid, ok := speciesChain[key]; ok {
				body = obj{"evolution_chain": obj{"url": fmt.Sprintf("https://stub/evolution-chain/%d/", cid)}}
			}
		case strings.HasPrefix(r.URL.Path, "/evolution-chain/"):
			body = stubChains[key]
		case strings.HasPrefix(r.URL.Path, "/pokemon/"):
			if sp, ok := stubSpecies[key]; ok {
				body = sp
			} else {
				body = stubByName[key]
			}
		case strings.HasPrefix(r.URL.Path, "/move/"):
			body = stubMoves[key]
		}
		if body == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type learn struct {
	name  string
	level int
}

func ip(v int) *int { return &v }

func species(id int, name string, types []string, stats [6]int, moves ...learn) obj {
	statNames := []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}
	statList := make([]obj, 6)
	for i, n := range statNames {
		statList[i] = obj{"base_stat": stats[i], "stat": obj{"name": n}}
	}
	typeList := make([]obj, len(types))
	for i, tn := range types {
		typeList[i] = obj{"slot": i + 1, "type": obj{"name": tn}}
	}
	moveList := make([]obj, len(moves))
	for i, m := range moves {
		moveList[i] = obj{
			"move": obj{"name": m.name},
			"version_group_details": []obj{
				{"level_learned_at": m.level, "move_learn_method": obj{"name": "level-up"}},
			},
		}
	}
	return obj{"id": id, "name": name, "stats": statList, "types": typeList, "moves": moveList}
}

func move(name string, power, accuracy, pp *int, typ, class, ailment string, chance int) obj {
	m := obj{
		"name":         name,
		"power":        power,
		"accuracy":     accuracy,
		"pp":           pp,
		"type":         obj{"name": typ},
		"damage_class": obj{"name": class},
	}
	if ailment != "" {
		m["meta"] = obj{"ailment": obj{"name": ailment}, "ailment_chance": chance}
	}
	return m
}

func node(id int, name string, minLevel int, evolvesTo ...obj) obj {
	n := obj{
		"species":    obj{"name": name, "url": fmt.Sprintf("https://stub/pokemon-species/%d/", id)},
		"evolves_to": evolvesTo,
	}
	if minLevel > 0 {
		n["evolution_details"] = []obj{{"min_level": minLevel}}
	} else {
		n["evolution_details"] = []obj{}
	}
	if evolvesTo == nil {
		n["evolves_to"] = []obj{}
	}
	return n
}

func chain(root obj) obj { return obj{"chain": root} }

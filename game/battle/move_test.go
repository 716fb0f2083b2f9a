package battle

import (
	"math/rand"
	"testing"

	"github.com/pokechain/arena/game/creature"
)

// scriptSource feeds rand.Rand a fixed sequence of Int63 values, then
// repeats the last one. Intn(power-of-two) reads low bits of Int63>>32,
// Intn(100) reads (Int63>>32)%100, Float64 reads Int63/2^63, so small
// scripted values are never rejected.
type scriptSource struct {
	vals []int64
	i    int
}

func (s *scriptSource) Int63() int64 {
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v
}

func (s *scriptSource) Seed(int64) {}

func scripted(vals ...int64) *rand.Rand {
	return rand.New(&scriptSource{vals: vals})
}

// hi maps a small int to an Int63 whose Int31 projection equals it.
func hi(v int64) int64 { return v << 32 }

func testAttacker() *creature.Creature {
	c := &creature.Creature{
		SpeciesID: 1,
		Name:      "bulbasaur",
		Types:     []string{"grass", "poison"},
		Base:      [6]int{45, 49, 49, 65, 65, 45},
		Level:     5,
	}
	for i := range c.IVs {
		c.IVs[i] = creature.PlayerIV
	}
	creature.PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

func testDefender() *creature.Creature {
	c := &creature.Creature{
		SpeciesID: 4,
		Name:      "charmander",
		Types:     []string{"fire"},
		Base:      [6]int{39, 52, 43, 60, 50, 65},
		Level:     5,
	}
	for i := range c.IVs {
		c.IVs[i] = creature.OpponentIV
	}
	creature.PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

func TestEffectiveness(t *testing.T) {
	cases := []struct {
		atk  string
		def  []string
		want float64
	}{
		{"fire", []string{"grass"}, 2},
		{"fire", []string{"grass", "poison"}, 2},
		{"water", []string{"fire"}, 2},
		{"grass", []string{"fire"}, 0.5},
		{"grass", []string{"fire", "flying"}, 0.25},
		{"electric", []string{"ground"}, 0},
		{"normal", []string{"ghost"}, 0},
		{"electric", []string{"water", "flying"}, 4},
		{"normal", []string{"fire"}, 1},
		{"unknown-type", []string{"fire"}, 1},
		{"fire", nil, 1},
	}
	for _, tc := range cases {
		if got := Effectiveness(tc.atk, tc.def); got != tc.want {
			t.Errorf("Effectiveness(%s, %v) = %v, want %v", tc.atk, tc.def, got, tc.want)
		}
	}
}

func TestResolveMove_NeutralHit(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	mv := &creature.Move{Name: "tackle", Power: 40, Accuracy: 100, Type: "normal", DamageClass: "physical", PP: 35, MaxPP: 35}

	// accuracy roll 0 (hit), crit roll 1 (no crit), variance 0 (0.85x).
	// Atk 11, Def 10: base = (2*5+10)*40*11/10/250 + 2 = 5.
	// No STAB, neutral: floor(5 * 0.85) = 4.
	rng := scripted(hi(0), hi(1), 0)
	res := ResolveMove(atk, def, mv, rng)

	if res.Missed || res.Critical {
		t.Fatalf("missed=%v critical=%v, want clean hit", res.Missed, res.Critical)
	}
	if res.Damage != 4 {
		t.Errorf("damage = %d, want 4", res.Damage)
	}
	if def.HP != def.MaxHP()-4 {
		t.Errorf("defender HP = %d, want %d", def.HP, def.MaxHP()-4)
	}
}

// The level term stays fractional until the final floor. At level 7 the
// multiplier is 2*7/5+2 = 4.8, not 4; flooring it early would shave a
// point off the base damage here.
func TestResolveMove_LevelNotMultipleOfFive(t *testing.T) {
	atk := &creature.Creature{
		Name:  "oddish",
		Types: []string{"grass"},
		Base:  [6]int{45, 50, 50, 75, 65, 30},
		Level: 7,
	}
	def := &creature.Creature{
		Name:  "rattata",
		Types: []string{"normal"},
		Base:  [6]int{45, 50, 50, 75, 65, 30},
		Level: 7,
	}
	for i := range atk.IVs {
		atk.IVs[i] = creature.PlayerIV
		def.IVs[i] = creature.PlayerIV
	}
	creature.PadMoves(atk)
	creature.PadMoves(def)
	atk.HP, def.HP = atk.MaxHP(), def.MaxHP()

	mv := &creature.Move{Name: "slam", Power: 100, Accuracy: 100, Type: "normal", DamageClass: "physical", PP: 20, MaxPP: 20}

	// Atk 14, Def 14: base = (2*7+10)*100*14/14/250 + 2 = 11.
	// No STAB, neutral, no crit: floor(11 * 0.85) = 9.
	rng := scripted(hi(0), hi(1), 0)
	res := ResolveMove(atk, def, mv, rng)

	if res.Missed || res.Critical {
		t.Fatalf("missed=%v critical=%v, want clean hit", res.Missed, res.Critical)
	}
	if res.Damage != 9 {
		t.Errorf("damage = %d, want 9", res.Damage)
	}
}

func TestResolveMove_StabAndEffectiveness(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	mv := &creature.Move{Name: "vine-whip", Power: 45, Accuracy: 100, Type: "grass", DamageClass: "physical", PP: 25, MaxPP: 25}

	// base = (2*5+10)*45*11/10/250 + 2 = 5; STAB 1.5x, fire resists
	// 0.5x, variance 0.85x: floor(5 * 1.5 * 0.5 * 0.85) = 3.
	rng := scripted(hi(0), hi(1), 0)
	res := ResolveMove(atk, def, mv, rng)

	if res.Effectiveness != 0.5 {
		t.Errorf("effectiveness = %v, want 0.5", res.Effectiveness)
	}
	if res.Damage != 3 {
		t.Errorf("damage = %d, want 3", res.Damage)
	}
}

func TestResolveMove_CriticalHit(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	mv := &creature.Move{Name: "tackle", Power: 40, Accuracy: 100, Type: "normal", DamageClass: "physical", PP: 35, MaxPP: 35}

	// All-zero rolls: hit, crit, 0.85x variance.
	// floor(5 * 1.5 * 0.85) = 6.
	res := ResolveMove(atk, def, mv, scripted(0))

	if !res.Critical {
		t.Fatal("expected critical hit")
	}
	if res.Damage != 6 {
		t.Errorf("damage = %d, want 6", res.Damage)
	}
}

func TestResolveMove_MinimumOneDamage(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	atk.Level = 1
	mv := &creature.Move{Name: "vine-whip", Power: 10, Accuracy: 100, Type: "grass", DamageClass: "physical", PP: 25, MaxPP: 25}

	res := ResolveMove(atk, def, mv, scripted(hi(0), hi(1), 0))
	if res.Damage < 1 {
		t.Errorf("damage = %d, want >= 1 on a connecting hit", res.Damage)
	}
}

func TestResolveMove_Immunity(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	def.Types = []string{"ghost"}
	mv := &creature.Move{Name: "tackle", Power: 40, Accuracy: 100, Type: "normal", DamageClass: "physical", Ailment: creature.StatusParalysis, AilmentChance: 100, PP: 35, MaxPP: 35}

	res := ResolveMove(atk, def, mv, scripted(0))

	if res.Damage != 0 {
		t.Errorf("damage = %d, want 0 against immune type", res.Damage)
	}
	if res.InflictedStatus != creature.StatusNone || def.Status != creature.StatusNone {
		t.Error("immune defender must not be statused")
	}
	if def.HP != def.MaxHP() {
		t.Errorf("defender HP = %d, want untouched", def.HP)
	}
}

func TestResolveMove_Miss(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	mv := &creature.Move{Name: "razor-leaf", Power: 55, Accuracy: 95, Type: "grass", DamageClass: "physical", PP: 25, MaxPP: 25}

	// accuracy roll 97 >= 95 misses.
	res := ResolveMove(atk, def, mv, scripted(hi(97)))

	if !res.Missed {
		t.Fatal("expected miss")
	}
	if res.Damage != 0 || def.HP != def.MaxHP() {
		t.Error("a miss must deal no damage")
	}
}

func TestResolveMove_StatusMoveNeverMisses(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	mv := &creature.Move{Name: "thunder-wave", Power: 0, Accuracy: 90, Type: "electric", DamageClass: "status", Ailment: creature.StatusParalysis, AilmentChance: 100, PP: 20, MaxPP: 20}

	// High roll would miss a damaging move; status moves skip the gate.
	res := ResolveMove(atk, def, mv, scripted(hi(97), hi(0)))

	if res.Missed {
		t.Fatal("status move must not miss")
	}
	if res.Damage != 0 {
		t.Errorf("damage = %d, want 0 for status move", res.Damage)
	}
	if def.Status != creature.StatusParalysis {
		t.Errorf("status = %q, want paralysis", def.Status)
	}
}

func TestResolveMove_StatusDoesNotStack(t *testing.T) {
	atk, def := testAttacker(), testDefender()
	def.Status = creature.StatusBurn
	mv := &creature.Move{Name: "thunder-wave", Power: 0, Accuracy: 90, Type: "electric", DamageClass: "status", Ailment: creature.StatusParalysis, AilmentChance: 100, PP: 20, MaxPP: 20}

	ResolveMove(atk, def, mv, scripted(0))

	if def.Status != creature.StatusBurn {
		t.Errorf("status = %q, want existing burn kept", def.Status)
	}
}

package creature

import (
	"testing"

	"github.com/pokechain/arena/catalog"
)

func testSpecies() *catalog.Species {
	return &catalog.Species{
		ID:        1,
		Name:      "bulbasaur",
		Types:     []string{"grass", "poison"},
		BaseStats: [6]int{45, 49, 49, 65, 65, 45},
	}
}

func TestHPAt(t *testing.T) {
	// (2*45 + 31 + 0) * 50 / 100 + 50 + 10 = 60 + 60 = 120
	if got := HPAt(45, 50, 31, 0); got != 120 {
		t.Errorf("HPAt = %d, want 120", got)
	}
	// EVs contribute floor(ev/4).
	if got := HPAt(45, 50, 31, 8); got != 121 {
		t.Errorf("HPAt with EV = %d, want 121", got)
	}
}

func TestStatAt(t *testing.T) {
	// (2*49 + 31) * 50 / 100 + 5 = 64 + 5 = 69
	if got := StatAt(49, 50, 31, 0); got != 69 {
		t.Errorf("StatAt = %d, want 69", got)
	}
}

func TestStatAt_MonotonicInLevel(t *testing.T) {
	prev := 0
	for lvl := 1; lvl <= 100; lvl++ {
		v := HPAt(45, lvl, 31, 0)
		if v < prev {
			t.Fatalf("HP decreased from %d to %d at level %d", prev, v, lvl)
		}
		prev = v
	}
}

func TestNewFromTemplate(t *testing.T) {
	mt := &catalog.MoveTemplate{Name: "vine-whip", Power: 45, Accuracy: 100, PP: 25, Type: "grass", DamageClass: "physical"}
	c := NewFromTemplate(testSpecies(), []*catalog.MoveTemplate{mt}, 5, PlayerIV)

	if c.HP != c.MaxHP() {
		t.Errorf("HP = %d, want full %d", c.HP, c.MaxHP())
	}
	if len(c.Moves) != MoveSlots {
		t.Fatalf("moves = %d, want %d", len(c.Moves), MoveSlots)
	}
	if c.Moves[0].Name != "vine-whip" {
		t.Errorf("slot 0 = %q, want vine-whip", c.Moves[0].Name)
	}
	if c.Moves[0].Padding {
		t.Error("slot 0 holds a real move, must not be flagged as padding")
	}
	// Remaining slots padded with the default move.
	for i := 1; i < MoveSlots; i++ {
		if c.Moves[i].Name != DefaultMove.Name {
			t.Errorf("slot %d = %q, want padding", i, c.Moves[i].Name)
		}
		if !c.Moves[i].Padding {
			t.Errorf("slot %d not flagged as padding", i)
		}
	}
	if !c.Learned["vine-whip"] {
		t.Error("learned map missing vine-whip")
	}
	for i, iv := range c.IVs {
		if iv != PlayerIV {
			t.Errorf("IV[%d] = %d, want %d", i, iv, PlayerIV)
		}
	}
}

func TestTakeDamageClampsAtZero(t *testing.T) {
	c := NewFromTemplate(testSpecies(), nil, 5, PlayerIV)
	c.TakeDamage(c.MaxHP() + 100)
	if c.HP != 0 {
		t.Errorf("HP = %d, want 0", c.HP)
	}
	if !c.IsFainted() {
		t.Error("expected fainted")
	}
}

func TestHealClampsAtMax(t *testing.T) {
	c := NewFromTemplate(testSpecies(), nil, 5, PlayerIV)
	c.TakeDamage(3)
	c.Heal(1000)
	if c.HP != c.MaxHP() {
		t.Errorf("HP = %d, want %d", c.HP, c.MaxHP())
	}
}

func TestRestore(t *testing.T) {
	c := NewFromTemplate(testSpecies(), nil, 5, PlayerIV)
	c.TakeDamage(5)
	c.Status = StatusPoison
	c.Moves[0].PP = 0

	c.Restore()

	if c.HP != c.MaxHP() {
		t.Errorf("HP = %d, want full", c.HP)
	}
	if c.Status != StatusNone {
		t.Errorf("status = %q, want none", c.Status)
	}
	if c.Moves[0].PP != c.Moves[0].MaxPP {
		t.Errorf("PP = %d, want %d", c.Moves[0].PP, c.Moves[0].MaxPP)
	}
}

func TestEvolvePreservesProgress(t *testing.T) {
	c := NewFromTemplate(testSpecies(), nil, 16, PlayerIV)
	c.XP = 500
	c.EVs[1] = 12
	c.TakeDamage(10)

	next := &catalog.Species{ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}, BaseStats: [6]int{60, 62, 63, 80, 80, 60}}
	c.Evolve(next)

	if c.SpeciesID != 2 || c.Name != "ivysaur" {
		t.Errorf("identity = %d/%q, want 2/ivysaur", c.SpeciesID, c.Name)
	}
	if c.Level != 16 || c.XP != 500 || c.EVs[1] != 12 {
		t.Error("evolution must not touch level, XP, or EVs")
	}
	if c.HP != c.MaxHP() {
		t.Errorf("HP = %d, want new max %d", c.HP, c.MaxHP())
	}
}

func TestHasUsableMove(t *testing.T) {
	c := NewFromTemplate(testSpecies(), nil, 5, PlayerIV)
	for i := range c.Moves {
		c.Moves[i].PP = 0
	}
	if c.HasUsableMove() {
		t.Error("expected no usable move")
	}
	c.Moves[2].PP = 1
	if !c.HasUsableMove() {
		t.Error("expected usable move in slot 2")
	}
}

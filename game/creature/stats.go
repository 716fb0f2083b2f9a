package creature

// Stat indexes the six-stat layout used everywhere in the engine.
type Stat int

const (
	StatHP Stat = iota
	StatAttack
	StatDefense
	StatSpAttack
	StatSpDefense
	StatSpeed
)

// IV defaults. Opponents are generated weaker than owned creatures on
// purpose; level parity at battle start assumes this asymmetry.
const (
	PlayerIV   = 31
	OpponentIV = 15
)

// HPAt computes the level-scaled max HP for a base stat.
// floor((2*base + iv + floor(ev/4)) * level / 100) + level + 10.
func HPAt(base, level, iv, ev int) int {
	return (2*base+iv+ev/4)*level/100 + level + 10
}

// StatAt computes a level-scaled non-HP stat.
// floor((2*base + iv + floor(ev/4)) * level / 100) + 5.
func StatAt(base, level, iv, ev int) int {
	return (2*base+iv+ev/4)*level/100 + 5
}

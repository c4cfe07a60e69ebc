package towngen

import (
	"github.com/IronJade/town-generator/internal/prng"
)

// Toggle controls an optional town feature. The zero value is Auto, which
// leaves the decision to the seeded random stream so that the same seed
// always resolves the same way.
type Toggle int

const (
	// Auto draws the decision from the town's random stream.
	Auto Toggle = iota
	// Always forces the feature on.
	Always
	// Never forces the feature off.
	Never
)

func (t Toggle) String() string {
	switch t {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "auto"
	}
}

// ParseToggle reads a toggle from its string form. Unknown values come
// back as Auto so CLI callers get a sane default rather than an error.
func ParseToggle(s string) Toggle {
	switch s {
	case "always", "yes", "true", "on":
		return Always
	case "never", "no", "false", "off":
		return Never
	default:
		return Auto
	}
}

// resolve collapses the toggle into a concrete decision. Auto consumes one
// draw from the stream even though Always / Never do not; callers resolve
// all toggles up front so the draw order is stable.
func (t Toggle) resolve(rng *prng.Rand) bool {
	switch t {
	case Always:
		return true
	case Never:
		return false
	default:
		return rng.Bool(0.5)
	}
}

// Named size classes, in patch counts. These are loose labels over the
// single NPatches knob rather than distinct generation modes.
const (
	SmallTown  = 6
	LargeTown  = 10
	SmallCity  = 15
	LargeCity  = 24
	Metropolis = 40
)

// SizeClasses maps CLI-friendly names to patch counts.
var SizeClasses = map[string]int{
	"small-town": SmallTown,
	"large-town": LargeTown,
	"small-city": SmallCity,
	"large-city": LargeCity,
	"metropolis": Metropolis,
}

// TownConfig holds everything needed to generate a town. The zero value is
// usable: a random seed, a small-city patch count and all features on Auto.
type TownConfig struct {
	// NPatches is the number of patches inside the city border. Values
	// below 1 fall back to SmallCity. Generation cost grows roughly
	// linearly with this; Metropolis-sized towns are still fast.
	NPatches int

	// Seed for the random stream. The same seed with the same config
	// produces a bit-identical town. Zero or negative means "pick one",
	// and the chosen seed is recorded on the Model.
	Seed int64

	// Plaza controls whether the central patch becomes a market plaza.
	Plaza Toggle

	// Citadel controls whether an edge patch becomes a walled citadel.
	Citadel Toggle

	// Walls controls whether the city border is built as a real curtain
	// wall with towers. Without walls the border still exists as the
	// city limit, it just has no physical presence.
	Walls Toggle

	// Yield, if set, is called between generation phases. It lets hosts
	// interleave other work during generation; it must not mutate the
	// model.
	Yield func()
}

func (c TownConfig) withDefaults() TownConfig {
	if c.NPatches < 1 {
		c.NPatches = SmallCity
	}
	return c
}

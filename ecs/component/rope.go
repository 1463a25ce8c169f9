package component

import "github.com/jakecoffman/cp"

// Rope is the live grapple constraint between a fixed world point and the
// player body.
type Rope struct {
	Constraint *cp.Constraint
	Anchor     cp.Vector
	Length     float64
	Stiffness  float64
	Damping    float64
}

var RopeComponent = NewComponent[Rope]()

package component

import "github.com/jakecoffman/cp"

type ShapeKind string

const (
	ShapeCircle ShapeKind = "circle"
	ShapeBox    ShapeKind = "box"
)

// PhysicsBody stores Chipmunk2D runtime handles and collider configuration.
// Body and Shape are filled in by the physics system the first tick the
// entity is seen.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Kind        ShapeKind
	Width       float64
	Height      float64
	Radius      float64
	Density     float64
	Friction    float64
	Elasticity  float64
	AirFriction float64
	Static      bool

	// Order is the body's position in the world prefab. Point queries
	// report hits in this order.
	Order int
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

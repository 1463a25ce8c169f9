package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// BoundsClamp keeps the player inside the canvas horizontally. It moves
// the body directly instead of colliding it, so it runs before the step.
type BoundsClamp struct{}

func NewBoundsClamp() *BoundsClamp { return &BoundsClamp{} }

func (b *BoundsClamp) Update(w *ecs.World) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	bodyComp, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok || bodyComp.Body == nil {
		return
	}
	boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())

	ClampHorizontal(bodyComp.Body, halfWidth(bodyComp), bounds.Width)
}

// ClampHorizontal pins body.x to [radius, width-radius] and zeroes the
// horizontal velocity when it had to move it. Vertical motion is left
// alone. It reports whether the body was moved.
func ClampHorizontal(body *cp.Body, radius, width float64) bool {
	if body == nil {
		return false
	}
	pos := body.Position()
	x := pos.X
	switch {
	case x < radius:
		x = radius
	case x > width-radius:
		x = width - radius
	default:
		return false
	}
	body.SetPosition(cp.Vector{X: x, Y: pos.Y})
	body.SetVelocity(0, body.Velocity().Y)
	return true
}

func halfWidth(b *component.PhysicsBody) float64 {
	if b.Kind == component.ShapeCircle {
		return b.Radius
	}
	return b.Width / 2
}

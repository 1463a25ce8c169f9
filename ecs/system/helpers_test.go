package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/prefabs"
)

func boundarySpecs(width, height float64) []prefabs.BodySpec {
	return []prefabs.BodySpec{
		{Name: "ground", Role: prefabs.RoleBoundary, Shape: "box", X: width / 2, Y: height - 25, Width: width, Height: 50, Static: true},
		{Name: "wall_left", Role: prefabs.RoleBoundary, Shape: "box", X: -25, Y: height / 2, Width: 50, Height: height, Static: true},
		{Name: "wall_right", Role: prefabs.RoleBoundary, Shape: "box", X: width + 25, Y: height / 2, Width: 50, Height: height, Static: true},
		{Name: "ceiling", Role: prefabs.RoleBoundary, Shape: "box", X: width / 2, Y: -25, Width: width, Height: 50, Static: true},
	}
}

func platformSpec(name string, x, y, w, h float64) prefabs.BodySpec {
	return prefabs.BodySpec{Name: name, Role: prefabs.RolePlatform, Shape: "box", X: x, Y: y, Width: w, Height: h, Static: true, Friction: 0.1}
}

// testWorldSpec lays out an 800x600 canvas with the player at (px, py),
// the four boundaries, then the given platforms in order.
func testWorldSpec(px, py float64, platforms ...prefabs.BodySpec) *prefabs.WorldSpec {
	bodies := []prefabs.BodySpec{{
		Name:        "player",
		Role:        prefabs.RolePlayer,
		Shape:       "circle",
		X:           px,
		Y:           py,
		Radius:      20,
		Density:     0.002,
		Friction:    0.1,
		Restitution: 0.1,
		AirFriction: 0.01,
	}}
	bodies = append(bodies, boundarySpecs(800, 600)...)
	bodies = append(bodies, platforms...)
	return &prefabs.WorldSpec{
		Name:    "test",
		Canvas:  prefabs.CanvasSpec{Width: 800, Height: 600},
		Gravity: 1000,
		Goal:    prefabs.GoalSpec{Margin: 50},
		Bodies:  bodies,
	}
}

func testGrappleSpec() *prefabs.GrappleSpec {
	return &prefabs.GrappleSpec{
		MaxLength: 300,
		Stiffness: 0.05,
		Damping:   0.01,
		Rope:      prefabs.LineRenderSpec{Width: 2, Color: "#000000"},
	}
}

func newTestSimulation(t *testing.T, spec *prefabs.WorldSpec, onWin func()) *Simulation {
	t.Helper()
	sim, err := NewSimulation(spec, testGrappleSpec(), onWin)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return sim
}

func playerBody(t *testing.T, sim *Simulation) *cp.Body {
	t.Helper()
	body := sim.Physics.Body(sim.Registry.Player)
	if body == nil {
		t.Fatalf("player has no body")
	}
	return body
}

func ropeCount(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.RopeComponent.Kind(), func(ecs.Entity, *component.Rope) { n++ })
	return n
}

// assertGrappleInvariant checks IsGrappling against both the ECS rope
// entities and the constraints in the Chipmunk space.
func assertGrappleInvariant(t *testing.T, sim *Simulation) {
	t.Helper()
	state := sim.Grapple.State()
	ropes := ropeCount(sim.World)
	constraints := sim.Physics.ConstraintCount()
	if state.IsGrappling {
		if ropes != 1 || constraints != 1 {
			t.Fatalf("grappling with %d rope entities and %d constraints", ropes, constraints)
		}
		if state.GrapplePoint == nil {
			t.Fatalf("grappling without a grapple point")
		}
		return
	}
	if ropes != 0 || constraints != 0 {
		t.Fatalf("not grappling but found %d rope entities and %d constraints", ropes, constraints)
	}
	if state.GrapplePoint != nil {
		t.Fatalf("grapple point should be cleared when not grappling")
	}
}

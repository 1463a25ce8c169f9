package system

import (
	"fmt"
	"image/color"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/prefabs"
)

// PhysicsWorld is what the grapple needs from the physics engine.
type PhysicsWorld interface {
	QueryPoint(p cp.Vector) []ecs.Entity
	Body(e ecs.Entity) *cp.Body
	AddRope(anchor cp.Vector, body *cp.Body, length, stiffness, damping float64) (*cp.Constraint, error)
	RemoveRope(rope *cp.Constraint)
}

// GameState is the mutable state of one play session.
// IsGrappling is true exactly when a rope constraint is in the space.
type GameState struct {
	IsGrappling  bool
	GrapplePoint *cp.Vector
	HasWon       bool
}

type GrappleTuning struct {
	MaxLength float64
	Stiffness float64
	Damping   float64

	RopeWidth     float32
	RopeColor     color.Color
	RopeAntiAlias bool
}

func DefaultGrappleTuning() GrappleTuning {
	return GrappleTuning{
		MaxLength:     300,
		Stiffness:     0.05,
		Damping:       0.01,
		RopeWidth:     2,
		RopeColor:     color.Black,
		RopeAntiAlias: true,
	}
}

func TuningFromSpec(spec *prefabs.GrappleSpec) (GrappleTuning, error) {
	tuning := DefaultGrappleTuning()
	if spec == nil {
		return tuning, nil
	}
	ropeColor, err := prefabs.ParseColor(spec.Rope.Color)
	if err != nil {
		return tuning, fmt.Errorf("grapple: rope color: %w", err)
	}
	tuning.MaxLength = spec.MaxLength
	tuning.Stiffness = spec.Stiffness
	tuning.Damping = spec.Damping
	tuning.RopeWidth = spec.Rope.Width
	tuning.RopeColor = ropeColor
	tuning.RopeAntiAlias = spec.Rope.AntiAlias
	return tuning, nil
}

// GrappleController turns pointer presses into a single rope between the
// player and a clicked platform.
type GrappleController struct {
	world   *ecs.World
	physics PhysicsWorld
	player  ecs.Entity
	tuning  GrappleTuning

	state GameState
	rope  ecs.Entity
}

func NewGrappleController(w *ecs.World, physics PhysicsWorld, player ecs.Entity, tuning GrappleTuning) *GrappleController {
	return &GrappleController{
		world:   w,
		physics: physics,
		player:  player,
		tuning:  tuning,
	}
}

func (g *GrappleController) State() *GameState {
	return &g.state
}

func (g *GrappleController) Tuning() GrappleTuning {
	return g.tuning
}

// SetTuning swaps rope parameters. An attached rope keeps the values it
// was created with.
func (g *GrappleController) SetTuning(t GrappleTuning) {
	g.tuning = t
}

// Rope returns the live rope, if any.
func (g *GrappleController) Rope() (*component.Rope, bool) {
	if !g.rope.Valid() {
		return nil, false
	}
	return ecs.Get(g.world, g.rope, component.RopeComponent.Kind())
}

// OnPointerDown attaches the rope at p when p lies on a non-boundary static
// body within reach of the player and no rope is attached yet. It reports
// whether a rope was created.
func (g *GrappleController) OnPointerDown(p cp.Vector) bool {
	if _, ok := g.anchorAt(p); !ok {
		return false
	}

	body := g.physics.Body(g.player)
	if body == nil {
		return false
	}
	dist := p.Distance(body.Position())
	if dist > g.tuning.MaxLength {
		return false
	}

	if g.state.IsGrappling {
		return false
	}

	constraint, err := g.physics.AddRope(p, body, dist, g.tuning.Stiffness, g.tuning.Damping)
	if err != nil {
		log.Printf("grapple: add rope: %v", err)
		return false
	}

	rope := ecs.CreateEntity(g.world)
	ropeComp := &component.Rope{
		Constraint: constraint,
		Anchor:     p,
		Length:     dist,
		Stiffness:  g.tuning.Stiffness,
		Damping:    g.tuning.Damping,
	}
	line := &component.LineRender{
		Start:     p,
		End:       body.Position(),
		Width:     g.tuning.RopeWidth,
		Color:     g.tuning.RopeColor,
		AntiAlias: g.tuning.RopeAntiAlias,
	}
	if err := addRopeComponents(g.world, rope, ropeComp, line); err != nil {
		log.Printf("grapple: %v", err)
		g.physics.RemoveRope(constraint)
		ecs.DestroyEntity(g.world, rope)
		return false
	}

	point := p
	g.rope = rope
	g.state.IsGrappling = true
	g.state.GrapplePoint = &point
	g.world.Events().Push(ecs.Event{Type: ecs.EventGrappleAttached, Data: point})
	return true
}

// OnPointerUp releases the rope. Releasing with no rope is a no-op.
func (g *GrappleController) OnPointerUp() bool {
	if !g.state.IsGrappling {
		return false
	}

	if rope, ok := g.Rope(); ok {
		g.physics.RemoveRope(rope.Constraint)
	}
	ecs.DestroyEntity(g.world, g.rope)

	g.rope = 0
	g.state.IsGrappling = false
	g.state.GrapplePoint = nil
	g.world.Events().Push(ecs.Event{Type: ecs.EventGrappleReleased})
	return true
}

// Update keeps the rope line's free end on the player.
func (g *GrappleController) Update(w *ecs.World) {
	if !g.state.IsGrappling {
		return
	}
	line, ok := ecs.Get(w, g.rope, component.LineRenderComponent.Kind())
	if !ok {
		return
	}
	body := g.physics.Body(g.player)
	if body == nil {
		return
	}
	line.End = body.Position()
}

func addRopeComponents(w *ecs.World, rope ecs.Entity, ropeComp *component.Rope, line *component.LineRender) error {
	if err := ecs.Add(w, rope, component.RopeComponent.Kind(), ropeComp); err != nil {
		return fmt.Errorf("add rope component: %w", err)
	}
	if err := ecs.Add(w, rope, component.LineRenderComponent.Kind(), line); err != nil {
		return fmt.Errorf("add rope line: %w", err)
	}
	return nil
}

// anchorAt picks the first platform under p. Boundaries are static too but
// never qualify. Hits come back in world prefab order, so the earliest
// listed platform wins.
func (g *GrappleController) anchorAt(p cp.Vector) (ecs.Entity, bool) {
	for _, e := range g.physics.QueryPoint(p) {
		if ecs.Has(g.world, e, component.PlatformTagComponent.Kind()) {
			return e, true
		}
	}
	return 0, false
}

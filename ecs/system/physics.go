package system

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

const (
	defaultGravity    = 1000.0
	defaultTimeStep   = 1.0 / 60.0
	defaultIterations = 20
)

var ErrNoBody = errors.New("physics: body not in space")

// PhysicsConfig tunes the Chipmunk space.
type PhysicsConfig struct {
	Gravity  float64
	TimeStep float64
}

// PhysicsSystem owns the Chipmunk space and mirrors PhysicsBody components
// into it.
type PhysicsSystem struct {
	space *cp.Space
	dt    float64

	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
	order  int
}

func NewPhysicsSystem(cfg PhysicsConfig) *PhysicsSystem {
	if cfg.Gravity == 0 {
		cfg.Gravity = defaultGravity
	}
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = defaultTimeStep
	}

	space := cp.NewSpace()
	space.Iterations = defaultIterations
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	return &PhysicsSystem{
		space:    space,
		dt:       cfg.TimeStep,
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update creates bodies for new entities, advances the space one fixed
// step and copies dynamic body positions back into transforms.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.Sync(w)
	ps.Step(ps.dt)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) Step(dt float64) {
	if ps == nil || ps.space == nil {
		return
	}
	ps.space.Step(dt)
}

// Sync adds bodies for entities the space has not seen yet and drops
// bodies whose entities are gone.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || ps.space == nil || w == nil {
		return
	}

	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info, ok := ps.entities[e]; ok {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			return
		}

		info := ps.createBodyInfo(transform, bodyComp)
		if info == nil {
			log.Printf("PhysicsSystem: entity %s has an unusable shape %q", e, bodyComp.Kind)
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	})
}

// Body returns the Chipmunk body for e, or nil if e has none yet.
func (ps *PhysicsSystem) Body(e ecs.Entity) *cp.Body {
	if ps == nil {
		return nil
	}
	if info, ok := ps.entities[e]; ok {
		return info.body
	}
	return nil
}

// QueryPoint returns the static bodies whose shape contains p, ordered by
// their position in the world prefab.
func (ps *PhysicsSystem) QueryPoint(p cp.Vector) []ecs.Entity {
	if ps == nil || ps.space == nil {
		return nil
	}

	var hits []ecs.Entity
	for e, info := range ps.entities {
		if !info.static || info.shape == nil {
			continue
		}
		if info.shape.PointQuery(p).Distance <= 0 {
			hits = append(hits, e)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		oi, oj := ps.entities[hits[i]].order, ps.entities[hits[j]].order
		if oi != oj {
			return oi < oj
		}
		return hits[i] < hits[j]
	})
	return hits
}

// AddRope links a fixed world point to body with a damped spring.
// stiffness and damping are per-tick fractions: the share of the length
// error and of the relative velocity the rope removes each step. They are
// scaled by body mass and the fixed time step into spring constants.
func (ps *PhysicsSystem) AddRope(anchor cp.Vector, body *cp.Body, length, stiffness, damping float64) (*cp.Constraint, error) {
	if ps == nil || ps.space == nil || body == nil {
		return nil, ErrNoBody
	}
	if !ps.ownsBody(body) {
		return nil, ErrNoBody
	}

	mass := body.Mass()
	k := stiffness * mass / (ps.dt * ps.dt)
	c := damping * mass / ps.dt

	spring := cp.NewDampedSpring(ps.space.StaticBody, body, anchor, cp.Vector{}, length, k, c)
	ps.space.AddConstraint(spring)
	return spring, nil
}

func (ps *PhysicsSystem) RemoveRope(rope *cp.Constraint) {
	if ps == nil || ps.space == nil || rope == nil {
		return
	}
	ps.space.RemoveConstraint(rope)
}

// ConstraintCount reports how many constraints the space holds.
func (ps *PhysicsSystem) ConstraintCount() int {
	if ps == nil || ps.space == nil {
		return 0
	}
	n := 0
	ps.space.EachConstraint(func(*cp.Constraint) { n++ })
	return n
}

func (ps *PhysicsSystem) ownsBody(body *cp.Body) bool {
	for _, info := range ps.entities {
		if info.body == body && !info.static {
			return true
		}
	}
	return false
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	center := cp.Vector{X: transform.X, Y: transform.Y}
	info := &bodyInfo{static: bodyComp.Static, order: bodyComp.Order}

	if bodyComp.Static {
		var shape *cp.Shape
		switch bodyComp.Kind {
		case component.ShapeCircle:
			if bodyComp.Radius <= 0 {
				return nil
			}
			shape = cp.NewCircle(ps.space.StaticBody, bodyComp.Radius, center)
		case component.ShapeBox:
			if bodyComp.Width <= 0 || bodyComp.Height <= 0 {
				return nil
			}
			bb := cp.BB{
				L: center.X - bodyComp.Width/2,
				B: center.Y - bodyComp.Height/2,
				R: center.X + bodyComp.Width/2,
				T: center.Y + bodyComp.Height/2,
			}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		default:
			return nil
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.shape = shape
		return info
	}

	var mass, moment float64
	switch bodyComp.Kind {
	case component.ShapeCircle:
		if bodyComp.Radius <= 0 {
			return nil
		}
		mass = bodyComp.Density * math.Pi * bodyComp.Radius * bodyComp.Radius
		moment = cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})
	case component.ShapeBox:
		if bodyComp.Width <= 0 || bodyComp.Height <= 0 {
			return nil
		}
		mass = bodyComp.Density * bodyComp.Width * bodyComp.Height
		moment = cp.MomentForBox(mass, bodyComp.Width, bodyComp.Height)
	default:
		return nil
	}
	if mass <= 0 {
		mass = 1
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)

	if air := bodyComp.AirFriction; air > 0 && air < 1 {
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping*(1-air), dt)
		})
	}

	var shape *cp.Shape
	if bodyComp.Kind == component.ShapeCircle {
		shape = cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, bodyComp.Width, bodyComp.Height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

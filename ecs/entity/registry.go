package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/prefabs"
	"golang.org/x/image/colornames"
)

// Registry is the fixed set of bodies built once from a world prefab.
// Bodies keeps prefab order.
type Registry struct {
	Player ecs.Entity
	Bounds ecs.Entity
	Bodies []ecs.Entity

	byName map[string]ecs.Entity
}

type roleBuildFn func(w *ecs.World, e ecs.Entity) error

var roleRegistry = map[string]roleBuildFn{
	prefabs.RolePlayer:   addPlayerTag,
	prefabs.RoleBoundary: addBoundaryTag,
	prefabs.RolePlatform: addPlatformTag,
}

// BuildWorld creates the level bounds entity and one entity per body in
// spec, in order.
func BuildWorld(w *ecs.World, spec *prefabs.WorldSpec) (*Registry, error) {
	if w == nil {
		return nil, fmt.Errorf("build world: world is nil")
	}
	if spec == nil {
		return nil, fmt.Errorf("build world: spec is nil")
	}

	reg := &Registry{byName: make(map[string]ecs.Entity, len(spec.Bodies))}

	reg.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, reg.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:      spec.Canvas.Width,
		Height:     spec.Canvas.Height,
		GoalMargin: spec.Goal.Margin,
	}); err != nil {
		return nil, fmt.Errorf("build world: level bounds: %w", err)
	}

	for i, body := range spec.Bodies {
		e, err := NewBody(w, body, i)
		if err != nil {
			return nil, fmt.Errorf("build world: %w", err)
		}
		reg.Bodies = append(reg.Bodies, e)
		if body.Name != "" {
			reg.byName[body.Name] = e
		}
		if body.Role == prefabs.RolePlayer {
			reg.Player = e
		}
	}

	if !reg.Player.Valid() {
		return nil, fmt.Errorf("build world: no player body")
	}
	return reg, nil
}

// Lookup finds a body by its prefab name.
func (r *Registry) Lookup(name string) (ecs.Entity, bool) {
	if r == nil {
		return 0, false
	}
	e, ok := r.byName[name]
	return e, ok
}

// NewBody builds a single body entity. order is its position in the world
// prefab.
func NewBody(w *ecs.World, spec prefabs.BodySpec, order int) (ecs.Entity, error) {
	roleFn, ok := roleRegistry[spec.Role]
	if !ok {
		return 0, fmt.Errorf("body %q: no builder for role %q", spec.Name, spec.Role)
	}

	fill, err := bodyColor(spec)
	if err != nil {
		return 0, fmt.Errorf("body %q: %w", spec.Name, err)
	}

	e := ecs.CreateEntity(w)
	steps := []func() error{
		func() error { return roleFn(w, e) },
		func() error {
			return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name})
		},
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
		},
		func() error {
			return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Kind:        component.ShapeKind(spec.Shape),
				Width:       spec.Width,
				Height:      spec.Height,
				Radius:      spec.Radius,
				Density:     spec.Density,
				Friction:    spec.Friction,
				Elasticity:  spec.Restitution,
				AirFriction: spec.AirFriction,
				Static:      spec.Static,
				Order:       order,
			})
		},
		func() error {
			return ecs.Add(w, e, component.FillComponent.Kind(), &component.Fill{Color: fill})
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("body %q: %w", spec.Name, err)
		}
	}
	return e, nil
}

func bodyColor(spec prefabs.BodySpec) (color.Color, error) {
	if spec.Color != "" {
		return prefabs.ParseColor(spec.Color)
	}
	switch spec.Role {
	case prefabs.RolePlayer:
		return colornames.Red, nil
	case prefabs.RoleBoundary:
		return colornames.Dimgray, nil
	default:
		return colornames.Slategray, nil
	}
}

func addPlayerTag(w *ecs.World, e ecs.Entity) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addBoundaryTag(w *ecs.World, e ecs.Entity) error {
	return ecs.Add(w, e, component.BoundaryTagComponent.Kind(), &component.BoundaryTag{})
}

func addPlatformTag(w *ecs.World, e ecs.Entity) error {
	return ecs.Add(w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{})
}

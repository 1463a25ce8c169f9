package entity

import (
	"strings"
	"testing"

	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/prefabs"
)

func TestBuildWorldFromEmbeddedPrefab(t *testing.T) {
	spec, err := prefabs.LoadWorldSpec("")
	if err != nil {
		t.Fatalf("load world spec: %v", err)
	}

	w := ecs.NewWorld()
	reg, err := BuildWorld(w, spec)
	if err != nil {
		t.Fatalf("build world: %v", err)
	}

	if len(reg.Bodies) != len(spec.Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(spec.Bodies), len(reg.Bodies))
	}
	for i, e := range reg.Bodies {
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			t.Fatalf("body %d has no physics component", i)
		}
		if body.Order != i {
			t.Fatalf("body %d: expected order %d, got %d", i, i, body.Order)
		}
	}

	bounds, ok := ecs.Get(w, reg.Bounds, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width != 800 || bounds.Height != 600 || bounds.GoalMargin != 50 {
		t.Fatalf("unexpected level bounds: %+v ok=%v", bounds, ok)
	}

	if !ecs.Has(w, reg.Player, component.PlayerTagComponent.Kind()) {
		t.Fatalf("player entity missing player tag")
	}

	tests := []struct {
		name     string
		boundary bool
		platform bool
	}{
		{"ground", true, false},
		{"wall_left", true, false},
		{"wall_right", true, false},
		{"ceiling", true, false},
		{"platform_1", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := reg.Lookup(tc.name)
			if !ok {
				t.Fatalf("%s not registered", tc.name)
			}
			if got := ecs.Has(w, e, component.BoundaryTagComponent.Kind()); got != tc.boundary {
				t.Fatalf("boundary tag = %v, want %v", got, tc.boundary)
			}
			if got := ecs.Has(w, e, component.PlatformTagComponent.Kind()); got != tc.platform {
				t.Fatalf("platform tag = %v, want %v", got, tc.platform)
			}
			body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if !body.Static {
				t.Fatalf("%s should be static", tc.name)
			}
			if fill, ok := ecs.Get(w, e, component.FillComponent.Kind()); !ok || fill.Color == nil {
				t.Fatalf("%s has no fill colour", tc.name)
			}
		})
	}
}

func TestNewBodyRejectsUnknownRole(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewBody(w, prefabs.BodySpec{Name: "lava", Role: "hazard"}, 0)
	if err == nil || !strings.Contains(err.Error(), "no builder for role") {
		t.Fatalf("expected unknown role error, got %v", err)
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed build must not leave entities behind, got %d", n)
	}
}

func TestNewBodyRejectsBadColor(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewBody(w, prefabs.BodySpec{Name: "p", Role: prefabs.RolePlatform, Color: "blue"}, 0)
	if err == nil {
		t.Fatalf("expected colour parse error")
	}
}

package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestClampHorizontal(t *testing.T) {
	tests := []struct {
		name      string
		pos       cp.Vector
		vel       cp.Vector
		wantPos   cp.Vector
		wantVel   cp.Vector
		wantMoved bool
	}{
		{
			name:      "left_edge",
			pos:       cp.Vector{X: 5, Y: 300},
			vel:       cp.Vector{X: -40, Y: 12},
			wantPos:   cp.Vector{X: 20, Y: 300},
			wantVel:   cp.Vector{X: 0, Y: 12},
			wantMoved: true,
		},
		{
			name:      "right_edge",
			pos:       cp.Vector{X: 795, Y: 120},
			vel:       cp.Vector{X: 55, Y: -3},
			wantPos:   cp.Vector{X: 780, Y: 120},
			wantVel:   cp.Vector{X: 0, Y: -3},
			wantMoved: true,
		},
		{
			name:    "inside",
			pos:     cp.Vector{X: 400, Y: 300},
			vel:     cp.Vector{X: -40, Y: 12},
			wantPos: cp.Vector{X: 400, Y: 300},
			wantVel: cp.Vector{X: -40, Y: 12},
		},
		{
			name:    "exactly_at_radius",
			pos:     cp.Vector{X: 20, Y: 300},
			vel:     cp.Vector{X: -1, Y: 0},
			wantPos: cp.Vector{X: 20, Y: 300},
			wantVel: cp.Vector{X: -1, Y: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := cp.NewBody(1, cp.MomentForCircle(1, 0, 20, cp.Vector{}))
			body.SetPosition(tc.pos)
			body.SetVelocity(tc.vel.X, tc.vel.Y)

			moved := ClampHorizontal(body, 20, 800)
			if moved != tc.wantMoved {
				t.Fatalf("moved = %v, want %v", moved, tc.wantMoved)
			}
			if got := body.Position(); got.Distance(tc.wantPos) > 1e-9 {
				t.Fatalf("position = %v, want %v", got, tc.wantPos)
			}
			if got := body.Velocity(); got.Distance(tc.wantVel) > 1e-9 {
				t.Fatalf("velocity = %v, want %v", got, tc.wantVel)
			}
		})
	}
}

func TestClampHorizontalNilBody(t *testing.T) {
	if ClampHorizontal(nil, 20, 800) {
		t.Fatalf("nil body must not report a move")
	}
}

func TestBoundsClampBeforeStep(t *testing.T) {
	sim := newTestSimulation(t, testWorldSpec(200, 300), nil)
	body := playerBody(t, sim)

	body.SetPosition(cp.Vector{X: 5, Y: 300})
	body.SetVelocity(-120, 30)

	sim.OnBeforeStep()

	if pos := body.Position(); pos.X != 20 || pos.Y != 300 {
		t.Fatalf("expected clamp to (20, 300), got %v", pos)
	}
	if vel := body.Velocity(); vel.X != 0 || vel.Y != 30 {
		t.Fatalf("expected velocity (0, 30), got %v", vel)
	}

	if !sim.Tick() {
		t.Fatalf("tick should run")
	}
	if pos := body.Position(); pos.X < 19.5 {
		t.Fatalf("player drifted past the left bound after a step: %v", pos)
	}
	if math.Abs(body.Velocity().X) > 1 {
		t.Fatalf("horizontal velocity should stay near zero, got %v", body.Velocity())
	}
}

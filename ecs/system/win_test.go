package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
)

func TestInGoal(t *testing.T) {
	tests := []struct {
		x, y float64
		want bool
	}{
		{770, 40, true},
		{751, 1, true},
		{750, 40, false},
		{770, 50, false},
		{400, 40, false},
		{770, 300, false},
	}
	for _, tc := range tests {
		if got := InGoal(tc.x, tc.y, 800, 50); got != tc.want {
			t.Fatalf("InGoal(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestWinFiresOnce(t *testing.T) {
	wins := 0
	sim := newTestSimulation(t, testWorldSpec(200, 500), func() { wins++ })

	playerBody(t, sim).SetPosition(cp.Vector{X: 770, Y: 40})

	if sim.Tick() {
		t.Fatalf("tick that reaches the goal must report the session halted")
	}
	if !sim.Halted() || !sim.Grapple.State().HasWon {
		t.Fatalf("expected halted session with HasWon set")
	}
	if wins != 1 {
		t.Fatalf("expected one win signal, got %d", wins)
	}

	// One more tick from a loop that has not noticed the halt yet.
	sim.OnBeforeStep()
	sim.Win.Update(sim.World)
	if sim.Tick() {
		t.Fatalf("halted session must not tick")
	}
	if wins != 1 {
		t.Fatalf("win must be signalled exactly once, got %d", wins)
	}
	if sim.Ticks() != 0 {
		t.Fatalf("no physics step should have run, got %d", sim.Ticks())
	}

	var wonEvents int
	for _, evt := range sim.World.Events().Drain() {
		if evt.Type == ecs.EventWon {
			wonEvents++
		}
	}
	if wonEvents != 1 {
		t.Fatalf("expected one won event, got %d", wonEvents)
	}
}

func TestWinIgnoresInputAfterHalt(t *testing.T) {
	sim := newTestSimulation(t, testWorldSpec(200, 500, platformSpec("a", 250, 400, 100, 40)), nil)
	playerBody(t, sim).SetPosition(cp.Vector{X: 770, Y: 40})
	sim.Tick()

	if sim.OnPointerDown(cp.Vector{X: 250, Y: 400}) {
		t.Fatalf("no grapple after the session ended")
	}
	if sim.OnPointerUp() {
		t.Fatalf("release after the session ended must be a no-op")
	}
}

func TestWinNotReached(t *testing.T) {
	sim := newTestSimulation(t, testWorldSpec(200, 500), func() { t.Fatalf("unexpected win") })
	for i := 0; i < 30; i++ {
		if !sim.Tick() {
			t.Fatalf("tick %d: session ended early", i)
		}
	}
	if sim.Grapple.State().HasWon {
		t.Fatalf("HasWon set without reaching the goal")
	}
}

func TestWinScript(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		pos     cp.Vector
		wantWin bool
		wantErr bool
	}{
		{
			name:    "custom_region",
			src:     "won = x < 100 && y > height - 200",
			pos:     cp.Vector{X: 60, Y: 500},
			wantWin: true,
		},
		{
			name: "custom_region_miss",
			src:  "won = x < 100 && y > height - 200",
			pos:  cp.Vector{X: 770, Y: 40},
		},
		{
			name:    "runtime_error_falls_back",
			src:     "f := 1\nwon = f()",
			pos:     cp.Vector{X: 770, Y: 40},
			wantWin: true,
		},
		{
			name:    "compile_error",
			src:     "won = missing_fn(",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wins := 0
			sim := newTestSimulation(t, testWorldSpec(200, 500), func() { wins++ })

			err := sim.Win.UseScript([]byte(tc.src))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected compile error")
				}
				return
			}
			if err != nil {
				t.Fatalf("use script: %v", err)
			}

			playerBody(t, sim).SetPosition(tc.pos)
			sim.OnBeforeStep()

			if got := wins == 1; got != tc.wantWin {
				t.Fatalf("won = %v, want %v", got, tc.wantWin)
			}
		})
	}
}

func TestWinEmbeddedGoalScript(t *testing.T) {
	spec := testWorldSpec(200, 500)
	spec.Goal.Script = "goal.tengo"
	wins := 0
	sim := newTestSimulation(t, spec, func() { wins++ })

	playerBody(t, sim).SetPosition(cp.Vector{X: 760, Y: 300})
	sim.OnBeforeStep()
	if wins != 0 {
		t.Fatalf("goal script fired outside the goal")
	}

	playerBody(t, sim).SetPosition(cp.Vector{X: 760, Y: 30})
	sim.OnBeforeStep()
	if wins != 1 {
		t.Fatalf("goal script did not fire inside the goal")
	}
}

func TestWinMissingScriptUsesBuiltin(t *testing.T) {
	spec := testWorldSpec(200, 500)
	spec.Goal.Script = "does_not_exist.tengo"
	wins := 0
	sim := newTestSimulation(t, spec, func() { wins++ })

	playerBody(t, sim).SetPosition(cp.Vector{X: 770, Y: 40})
	sim.Tick()
	if wins != 1 {
		t.Fatalf("expected built-in goal to fire, got %d wins", wins)
	}
}

package system

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/entity"
	"github.com/milk9111/grapple/prefabs"
)

// Simulation drives one play session. Pointer events are applied between
// ticks; each tick runs the bounds clamp, then the win check, then the
// physics step.
type Simulation struct {
	World    *ecs.World
	Registry *entity.Registry
	Physics  *PhysicsSystem
	Grapple  *GrappleController
	Clamp    *BoundsClamp
	Win      *WinChecker

	beforeStep *ecs.Scheduler
	afterStep  *ecs.Scheduler

	onWin  func()
	halted bool
	ticks  int
}

// NewSimulation builds the world described by worldSpec. onWin runs once,
// on the tick the goal is reached, after the simulation has halted.
func NewSimulation(worldSpec *prefabs.WorldSpec, grappleSpec *prefabs.GrappleSpec, onWin func()) (*Simulation, error) {
	if worldSpec == nil {
		return nil, fmt.Errorf("simulation: world spec is nil")
	}
	tuning, err := TuningFromSpec(grappleSpec)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	w := ecs.NewWorld()
	reg, err := entity.BuildWorld(w, worldSpec)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	physics := NewPhysicsSystem(PhysicsConfig{Gravity: worldSpec.Gravity})
	physics.Sync(w)

	s := &Simulation{
		World:    w,
		Registry: reg,
		Physics:  physics,
		Clamp:    NewBoundsClamp(),
		onWin:    onWin,
	}
	s.Grapple = NewGrappleController(w, physics, reg.Player, tuning)
	s.Win = NewWinChecker(s.Grapple.State(), s.halt)

	if name := worldSpec.Goal.Script; name != "" {
		if err := s.loadWinScript(name); err != nil {
			log.Printf("simulation: %v; using built-in goal", err)
		}
	}

	s.beforeStep = ecs.NewScheduler(s.Clamp, s.Win)
	s.afterStep = ecs.NewScheduler(s.Grapple)
	return s, nil
}

func (s *Simulation) loadWinScript(name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("load win script %s: %w", name, err)
	}
	return s.Win.UseScript(src)
}

// OnPointerDown forwards a press to the grapple. Input after the session
// has ended is ignored.
func (s *Simulation) OnPointerDown(p cp.Vector) bool {
	if s.halted {
		return false
	}
	return s.Grapple.OnPointerDown(p)
}

func (s *Simulation) OnPointerUp() bool {
	if s.halted {
		return false
	}
	return s.Grapple.OnPointerUp()
}

// OnBeforeStep runs the per-tick corrections that must see the pre-step
// state: the bounds clamp and then the win check.
func (s *Simulation) OnBeforeStep() {
	s.beforeStep.Update(s.World)
}

// Tick advances the session by one fixed step. It returns false once the
// session has halted; later calls do nothing.
func (s *Simulation) Tick() bool {
	if s.halted {
		return false
	}
	s.OnBeforeStep()
	if s.halted {
		return false
	}
	s.Physics.Update(s.World)
	s.afterStep.Update(s.World)
	s.ticks++
	return true
}

func (s *Simulation) Halted() bool {
	return s.halted
}

func (s *Simulation) Ticks() int {
	return s.ticks
}

func (s *Simulation) halt() {
	if s.halted {
		return
	}
	s.halted = true
	if s.onWin != nil {
		s.onWin()
	}
}

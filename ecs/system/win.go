package system

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// WinChecker ends the session when the player reaches the top-right goal
// region. HasWon on the shared GameState makes the signal fire once.
type WinChecker struct {
	state  *GameState
	onWin  func()
	script *tengo.Compiled
}

func NewWinChecker(state *GameState, onWin func()) *WinChecker {
	return &WinChecker{state: state, onWin: onWin}
}

// UseScript compiles a tengo goal predicate. The script sees x, y, width,
// height and margin and must assign won. A nil or empty source restores
// the built-in test.
func (c *WinChecker) UseScript(src []byte) error {
	if len(src) == 0 {
		c.script = nil
		return nil
	}

	script := tengo.NewScript(src)
	for _, name := range []string{"x", "y", "width", "height", "margin"} {
		if err := script.Add(name, 0.0); err != nil {
			return fmt.Errorf("win script: declare %s: %w", name, err)
		}
	}
	if err := script.Add("won", false); err != nil {
		return fmt.Errorf("win script: declare won: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("win script: compile: %w", err)
	}
	c.script = compiled
	return nil
}

func (c *WinChecker) Update(w *ecs.World) {
	if c.state == nil || c.state.HasWon {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	x, y, ok := playerPosition(w, player)
	if !ok {
		return
	}
	boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())

	if !c.reached(x, y, bounds) {
		return
	}

	c.state.HasWon = true
	w.Events().Push(ecs.Event{Type: ecs.EventWon})
	log.Printf("win: player reached goal at (%.1f, %.1f)", x, y)
	if c.onWin != nil {
		c.onWin()
	}
}

func (c *WinChecker) reached(x, y float64, bounds *component.LevelBounds) bool {
	if c.script != nil {
		won, err := c.runScript(x, y, bounds)
		if err == nil {
			return won
		}
		log.Printf("win: script failed, using built-in goal: %v", err)
		c.script = nil
	}
	return InGoal(x, y, bounds.Width, bounds.GoalMargin)
}

func (c *WinChecker) runScript(x, y float64, bounds *component.LevelBounds) (bool, error) {
	vars := map[string]any{
		"x":      x,
		"y":      y,
		"width":  bounds.Width,
		"height": bounds.Height,
		"margin": bounds.GoalMargin,
		"won":    false,
	}
	for name, v := range vars {
		if err := c.script.Set(name, v); err != nil {
			return false, err
		}
	}
	if err := c.script.Run(); err != nil {
		return false, err
	}
	return c.script.Get("won").Bool(), nil
}

// InGoal is the built-in goal test: right of width-margin and above margin.
func InGoal(x, y, width, margin float64) bool {
	return x > width-margin && y < margin
}

func playerPosition(w *ecs.World, player ecs.Entity) (float64, float64, bool) {
	if bodyComp, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && bodyComp.Body != nil {
		pos := bodyComp.Body.Position()
		return pos.X, pos.Y, true
	}
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		return t.X, t.Y, true
	}
	return 0, 0, false
}

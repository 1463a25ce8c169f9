package main

import (
	"encoding/json"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/render"
	"github.com/milk9111/grapple/ecs/system"
	"github.com/milk9111/grapple/prefabs"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

type Game struct {
	worldFile string
	debug     bool

	sim        *system.Simulation
	renderer   *render.WorldRenderer
	background color.Color

	won      bool
	winUI    *ebitenui.UI
	winFrame int

	watcher     *prefabs.Watcher
	clipboardOK bool
}

func NewGame(worldName string, debug bool) (*Game, error) {
	g := &Game{
		worldFile: worldFile(worldName),
		debug:     debug,
		renderer:  render.NewWorldRenderer(),
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	g.winUI = NewWinUI(g)

	if debug {
		watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("Game: prefab hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
		}
		if err := clipboard.Init(); err != nil {
			log.Printf("Game: clipboard unavailable: %v", err)
		} else {
			g.clipboardOK = true
		}
	}
	return g, nil
}

func worldFile(name string) string {
	if name == "" {
		return prefabs.WorldFile
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		return name
	}
	return name + ".yaml"
}

// reset rebuilds the session from the prefabs on disk or embedded.
func (g *Game) reset() error {
	worldSpec, err := prefabs.LoadWorldSpec(g.worldFile)
	if err != nil {
		return err
	}
	grappleSpec, err := prefabs.LoadGrappleSpec()
	if err != nil {
		return err
	}
	sim, err := system.NewSimulation(worldSpec, grappleSpec, g.onWin)
	if err != nil {
		return err
	}

	g.background = colornames.Skyblue
	if worldSpec.Canvas.Background != "" {
		bg, err := prefabs.ParseColor(worldSpec.Canvas.Background)
		if err != nil {
			log.Printf("Game: background: %v", err)
		} else {
			g.background = bg
		}
	}

	g.sim = sim
	g.won = false
	g.winFrame = 0
	return nil
}

func (g *Game) onWin() {
	g.won = true
	log.Println("Game: You Win!")
}

// Restart is bound to the victory dialog.
func (g *Game) Restart() {
	if err := g.reset(); err != nil {
		log.Printf("Game: restart failed: %v", err)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("Game: close watcher: %v", err)
		}
	}
}

func (g *Game) Update() error {
	g.applyReloads()

	if g.won {
		g.winFrame++
		g.winUI.Update()
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.sim.OnPointerDown(cp.Vector{X: float64(x), Y: float64(y)})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.sim.OnPointerUp()
	}

	if g.debug && g.clipboardOK && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyState()
	}

	g.sim.Tick()
	g.logEvents()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	if g.won {
		// The world is no longer drawn once the goal is reached.
		g.drawWinOverlay(screen)
		g.winUI.Draw(screen)
		return
	}

	render.DrawGoal(g.sim.World, screen)
	g.renderer.Draw(g.sim.World, screen)

	if g.debug {
		render.DrawPhysicsDebug(g.sim.Physics.Space(), screen)
		render.DrawStateDebug(screen, g.sim.Grapple.State(), g.sim.Ticks())
	}
}

func (g *Game) drawWinOverlay(screen *ebiten.Image) {
	const fadeFrames = 30
	t := float32(g.winFrame) / fadeFrames
	if t > 1 {
		t = 1
	}
	alpha := common.Lerp(0, 160, t)
	overlay := color.NRGBA{A: uint8(alpha)}
	screen.Fill(overlay)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Err(); err != nil {
		log.Printf("Game: prefab watcher: %v", err)
	}
	changed := g.watcher.Changed()
	if len(changed) == 0 {
		return
	}

	rebuild := false
	for _, name := range changed {
		switch {
		case name == prefabs.GrappleFile:
			g.reloadGrapple()
		case name == filepath.Base(g.worldFile), filepath.Ext(name) == ".tengo":
			rebuild = true
		}
	}
	if rebuild {
		if err := g.reset(); err != nil {
			log.Printf("Game: reload %s: %v", g.worldFile, err)
			return
		}
		if mod, ok := prefabs.ModTime(g.worldFile); ok {
			log.Printf("Game: reloaded %s (modified %s)", g.worldFile, mod.Format("15:04:05"))
		}
	}
}

// reloadGrapple swaps rope tuning in place so a swing in progress keeps going.
func (g *Game) reloadGrapple() {
	spec, err := prefabs.LoadGrappleSpec()
	if err != nil {
		log.Printf("Game: reload %s: %v", prefabs.GrappleFile, err)
		return
	}
	tuning, err := system.TuningFromSpec(spec)
	if err != nil {
		log.Printf("Game: reload %s: %v", prefabs.GrappleFile, err)
		return
	}
	g.sim.Grapple.SetTuning(tuning)
	log.Printf("Game: reloaded %s", prefabs.GrappleFile)
}

func (g *Game) logEvents() {
	for _, evt := range g.sim.World.Events().Drain() {
		if !g.debug {
			continue
		}
		switch evt.Type {
		case ecs.EventGrappleAttached, ecs.EventGrappleReleased:
			log.Printf("Game: %s %v", evt.Type, evt.Data)
		}
	}
}

type stateSnapshot struct {
	Ticks        int        `json:"ticks"`
	Player       cp.Vector  `json:"player"`
	Velocity     cp.Vector  `json:"velocity"`
	IsGrappling  bool       `json:"is_grappling"`
	GrapplePoint *cp.Vector `json:"grapple_point,omitempty"`
	HasWon       bool       `json:"has_won"`
}

func (g *Game) copyState() {
	state := g.sim.Grapple.State()
	snap := stateSnapshot{
		Ticks:        g.sim.Ticks(),
		IsGrappling:  state.IsGrappling,
		GrapplePoint: state.GrapplePoint,
		HasWon:       state.HasWon,
	}
	if body := g.sim.Physics.Body(g.sim.Registry.Player); body != nil {
		snap.Player = body.Position()
		snap.Velocity = body.Velocity()
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("Game: snapshot: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("Game: copied state at tick %d", snap.Ticks)
}

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
)

// WorldRenderer draws filled bodies and rope lines straight from the ECS.
// Bodies are drawn in creation order, so later prefab entries paint on top.
type WorldRenderer struct {
	pixel *ebiten.Image
}

func NewWorldRenderer() *WorldRenderer {
	return &WorldRenderer{}
}

func (r *WorldRenderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.FillComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.PhysicsBody, fill *component.Fill) {
		if fill.Color == nil {
			return
		}
		switch body.Kind {
		case component.ShapeCircle:
			vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(body.Radius), fill.Color, true)
		case component.ShapeBox:
			r.drawBox(screen, t, body.Width, body.Height, fill.Color)
		}
	})

	ecs.ForEach(w, component.LineRenderComponent.Kind(), func(e ecs.Entity, line *component.LineRender) {
		if line.Color == nil || line.Width <= 0 {
			return
		}
		vector.StrokeLine(screen, float32(line.Start.X), float32(line.Start.Y), float32(line.End.X), float32(line.End.Y), line.Width, line.Color, line.AntiAlias)
	})
}

// drawBox scales a single white pixel so rotated dynamic boxes come out
// right without building a path.
func (r *WorldRenderer) drawBox(screen *ebiten.Image, t *component.Transform, width, height float64, c color.Color) {
	if width <= 0 || height <= 0 {
		return
	}
	if t.Rotation == 0 {
		vector.FillRect(screen, float32(t.X-width/2), float32(t.Y-height/2), float32(width), float32(height), c, false)
		return
	}

	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(color.White)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(width, height)
	op.GeoM.Rotate(t.Rotation)
	op.GeoM.Translate(t.X, t.Y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(r.pixel, op)
}

// DrawGoal outlines the goal corner so players know where to swing.
func DrawGoal(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())
	if !ok || bounds.GoalMargin <= 0 {
		return
	}
	m := float32(bounds.GoalMargin)
	x := float32(bounds.Width) - m
	vector.FillRect(screen, x, 0, m, m, color.RGBA{R: 255, G: 215, A: 64}, false)
	vector.StrokeRect(screen, x, 0, m, m, 1, color.RGBA{R: 255, G: 215, A: 200}, false)
}

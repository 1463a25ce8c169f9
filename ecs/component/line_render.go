package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// LineRender is a world-space segment drawn over the bodies. The grapple
// uses one for the rope, pinned at Start and following the player at End.
type LineRender struct {
	Start     cp.Vector
	End       cp.Vector
	Width     float32
	Color     color.Color
	AntiAlias bool
}

var LineRenderComponent = NewComponent[LineRender]()

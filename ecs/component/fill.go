package component

import "image/color"

// Fill is the solid colour a body is drawn with.
type Fill struct {
	Color color.Color
}

var FillComponent = NewComponent[Fill]()

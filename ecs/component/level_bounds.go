package component

// LevelBounds stores the world-space size of the playable canvas and the
// goal region in its top-right corner.
type LevelBounds struct {
	Width      float64
	Height     float64
	GoalMargin float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()

package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// BoundaryTag marks the ground, walls and ceiling. They collide like any
// static body but never take a grapple.
type BoundaryTag struct{}

var BoundaryTagComponent = NewComponent[BoundaryTag]()

type PlatformTag struct{}

var PlatformTagComponent = NewComponent[PlatformTag]()

// Name is the prefab name of an entity.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

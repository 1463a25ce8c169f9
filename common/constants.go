package common

// Logical screen size. World units map 1:1 onto it.
const (
	BaseWidth  = 800
	BaseHeight = 600
)

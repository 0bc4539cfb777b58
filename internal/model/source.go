// Package model defines the data structures shared by the lowering engine.
package model

// Path represents a file system path.
type Path string

// Source pairs an input file with the location its lowered form is written to.
type Source struct {
	Origin Path
	Output Path
}

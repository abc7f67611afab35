// Package tui is the interactive terminal interface: a menu, a catalog manager and a player screen.
package tui

type state int

const (
	menuState state = iota
	catalogState
	formState
	pathState
	validateState
	confirmState
	playerState
	errorState
)

// pathMode tells the path prompt what to do with the entered file.
type pathMode int

const (
	importPath pathMode = iota
	exportPath
)

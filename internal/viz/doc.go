// Package viz draws a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view stepping a simulation from a clamped frame clock
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - [Viewport]: arena to canvas projection, y up
//   - a preset browser that opens the live view for the chosen preset
//
// Trails fade from the background colour toward the body colour with the
// trail point opacity. Grid lines are blended toward the background by the
// configured grid alpha.
//
// # Key Bindings
//
//	Space/P - Pause/Resume simulation
//	R       - Rebuild the scenario
//	C       - Toggle collisions
//	G       - Toggle grid
//	L       - Toggle trails
//	T       - Cycle color themes
//	?       - Show help overlay
package viz

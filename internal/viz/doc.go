// Package viz renders galaxies in the terminal.
//
// The package implements a preview TUI using the Bubble Tea framework:
//
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [Camera]: perspective projection driven by an orbit controller
//   - [RunTUI]: interactive preview with a live parameter panel
//
// # Key Bindings
//
//	Tab/↑↓  - Select parameter
//	←/→     - Step parameter (Shift for x10), regenerates the galaxy
//	Space   - Toggle auto rotation
//	x/y     - Orbit, +/- zoom
//	R       - Reset view
//	N       - New seed
//	C       - Toggle colors
//	S       - Toggle spiral/scatter layout
//	A       - Toggle world axes
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// Frames are captured while recording and written to galaxy.gif in the
// current directory when recording stops.
package viz

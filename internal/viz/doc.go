// Package viz provides a terminal viewer for orbital point clouds.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live viewer driving a [pipeline.Orchestrator]
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [Camera]: quaternion rotation and perspective projection
//   - Phase color themes, cycled with T
//
// # Key Bindings
//
//	Space - Pause/Resume spin
//	Tab   - Next orbital (Shift+Tab previous, O for a menu)
//	C     - Cycle coloring mode
//	+/-   - Threshold ±0.01
//	[]    - Halve/double the sample count
//	?     - Show help overlay
//
// # Rebuilds
//
// Parameter changes run in a Bubble Tea command, so the cloud keeps spinning
// while stages rebuild. A rejected change leaves the previous cloud on screen
// and shows the error in the status line.
package viz

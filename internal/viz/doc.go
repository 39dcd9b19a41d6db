// Package viz provides the terminal sandbox for the particle solver.
//
// The interactive view is a Bubble Tea program:
//
//   - [Model]: frame loop, input handling, and stats panel
//   - [Canvas]: braille pixel canvas for arena and particle rendering
//
// # Key Bindings
//
//	Click  - Spawn a particle at the cursor
//	Wheel  - Adjust the substep count
//	Space  - Pause/Resume
//	R      - Reset the world
//	T      - Cycle color themes
//	?      - Toggle help
//
// Input never touches the world directly: every click and wheel event is
// queued on the session and applied at the next frame boundary.
package viz

// Package viz provides the interactive terminal viewer for the cloth.
//
// The viewer is a Bubble Tea program with mouse reporting enabled:
//
//   - [Model]: live simulation driven by pointer and keys
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Viewport]: world to sub-pixel mapping
//   - Theme selection with 3 built-in color schemes
//
// # Controls
//
//	Left drag  - Move the nearest particle
//	Right drag - Cut every spring the pointer crosses
//	Space      - Pause/Resume simulation
//	R          - Reset to the initial cloth
//	Tab/Up/Down - Select and tune a parameter
//	T          - Cycle color themes
//	G          - Toggle GIF recording
//	?          - Show help overlay
//
// # Recording
//
// Pass a record path to [Run] or [RunMenu] to save the session as an input
// script that the run command can replay.
package viz

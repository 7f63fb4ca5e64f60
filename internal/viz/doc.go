// Package viz provides the interactive terminal front end for the RL
// simulator.
//
// The package implements a Bubble Tea application:
//
//   - [Model]: sliders for L, R, T and alpha, a start action and an
//     animated replay of the latest trajectory
//   - [Canvas]: Braille-based pixel canvas used to draw the current trace
//
// # Key Bindings
//
//	Tab/Shift+Tab - Select slider
//	←/→ (h/l)     - Adjust selected slider
//	Enter/S       - Run the simulation and start the animation
//	Space/P       - Pause/Resume the animation
//	R             - Reset sliders to their initial values
//	?             - Show help overlay
//	Q             - Quit
//
// Every successful run replaces the previous trajectory through
// [Model.OnTrajectory]; a rejected parameter set leaves it in place.
package viz

// Package viz renders recorded trajectories.
//
//   - [Canvas]: braille raster with per-cell particle colouring
//   - [Player]: Bubble Tea model replaying a trajectory with a stride
//   - [TrajectorySVG]: one coloured path per particle
//
// 3D positions are projected onto a [Plane], optionally rotated first.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	←/→   - Step backward/forward
//	R     - Restart
//	T     - Cycle color themes
//	X/Y   - Rotate 3D trajectories
package viz

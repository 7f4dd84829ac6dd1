// Package render hosts the desktop client: an ebiten game loop that
// mirrors engine state, ambient animations, and the frame raster routine.
package render

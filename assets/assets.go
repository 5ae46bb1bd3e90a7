// Package assets loads the raster image used to derive a track's
// walkability bitmap. It is the thin raylib-backed collaborator upstream
// of track.New; nothing in engine/ imports this package, so the core
// stays headless-testable and free of a raylib dependency.
package assets

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LoadTrackImage decodes the raster at path and returns its dimensions
// plus a row-major RGBA byte buffer (4 bytes per pixel), the shape
// track.New expects.
func LoadTrackImage(path string) (width, height int, rgba []byte, err error) {
	img := rl.LoadImage(path)
	defer rl.UnloadImage(img)
	if img.Width == 0 || img.Height == 0 {
		return 0, 0, nil, fmt.Errorf("assets: failed to load track image %q", path)
	}

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	width, height = int(img.Width), int(img.Height)
	rgba = make([]byte, width*height*4)
	for i, c := range colors {
		rgba[i*4+0] = c.R
		rgba[i*4+1] = c.G
		rgba[i*4+2] = c.B
		rgba[i*4+3] = c.A
	}
	return width, height, rgba, nil
}

// Package track models the race surface: a bounded rectangle with a
// walkable/non-walkable bitmap derived from a track image, plus the
// lattice of sampled walkable cells used for goal placement and spawn
// search. Track never touches rendering; it is pure geometry and state
// the engine core can query and the CLI driver can load from an image.
package track

import (
	"fmt"

	"github.com/blindhorse/racesim/rng"
)

// latticeStep is the spacing, in pixels, between sampled walkable-cell
// candidates used by FarthestWalkableFrom and RandomWalkable.
const latticeStep = 20

// latticeMargin keeps the lattice away from the track border, where a
// narrow band of barely-walkable pixels can otherwise trap actors against
// a wall.
const latticeMargin = 40

// Track is an immutable bounded walkability map for one race surface.
type Track struct {
	width, height int
	walkable      []bool // row-major, len == width*height
	cells         []Vec2 // sampled lattice of walkable points
}

// Vec2 is a 2D point or vector in track-space pixel coordinates.
type Vec2 struct {
	X, Y float32
}

// New builds a Track from an RGBA image buffer (4 bytes per pixel, row
// major, top-left origin). A pixel is walkable when its average channel
// brightness exceeds thresholdBrightness, or its alpha exceeds 128 — the
// same "bright or opaque" rule used to author track masks by hand.
func New(width, height int, rgba []byte, thresholdBrightness int) (*Track, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("track: invalid dimensions %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("track: rgba buffer length %d does not match %dx%d*4", len(rgba), width, height)
	}

	walkable := make([]bool, width*height)
	for i := 0; i < width*height; i++ {
		r := int(rgba[i*4+0])
		g := int(rgba[i*4+1])
		b := int(rgba[i*4+2])
		a := int(rgba[i*4+3])
		brightness := (r + g + b) / 3
		walkable[i] = brightness > thresholdBrightness || a > 128
	}

	t := &Track{
		width:    width,
		height:   height,
		walkable: walkable,
	}
	t.buildLattice()
	return t, nil
}

func (t *Track) buildLattice() {
	marginX := clampMargin(latticeMargin, t.width)
	marginY := clampMargin(latticeMargin, t.height)

	for y := marginY; y <= t.height-marginY; y += latticeStep {
		for x := marginX; x <= t.width-marginX; x += latticeStep {
			if t.IsWalkable(float32(x), float32(y)) {
				t.cells = append(t.cells, Vec2{X: float32(x), Y: float32(y)})
			}
		}
	}
}

// clampMargin shrinks the lattice margin for tracks too small to fit it,
// so a track at least a few pixels wide or tall still samples its center
// instead of producing an empty lattice (§3: walkable_cells must be
// non-empty for any valid track, including the 64x64 canonical test
// tracks). Clamping to dim/2 rather than leaving slack keeps the single
// remaining sample centered on the track instead of pinned to one edge.
func clampMargin(margin, dim int) int {
	if max := dim / 2; margin > max {
		return max
	}
	return margin
}

// Width returns the track width in pixels.
func (t *Track) Width() int { return t.width }

// Height returns the track height in pixels.
func (t *Track) Height() int { return t.height }

// WalkableCells returns the sampled lattice of walkable points. Callers
// must not mutate the returned slice.
func (t *Track) WalkableCells() []Vec2 {
	return t.cells
}

func (t *Track) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0, false
	}
	return y*t.width + x, true
}

// IsWalkable reports whether the pixel containing (x, y) is walkable.
// Points outside the track bounds are never walkable.
func (t *Track) IsWalkable(x, y float32) bool {
	if x < 0 || y < 0 {
		return false
	}
	idx, ok := t.index(int(x), int(y))
	if !ok {
		return false
	}
	return t.walkable[idx]
}

// IsWalkableWithTolerance reports whether any pixel within tolerance
// pixels (checked on the four cardinal offsets plus the center) is
// walkable. Used to let an actor hug a boundary without registering as
// stuck against a single noisy pixel.
func (t *Track) IsWalkableWithTolerance(x, y, tolerance float32) bool {
	if t.IsWalkable(x, y) {
		return true
	}
	offsets := [4]Vec2{
		{X: tolerance, Y: 0},
		{X: -tolerance, Y: 0},
		{X: 0, Y: tolerance},
		{X: 0, Y: -tolerance},
	}
	for _, off := range offsets {
		if t.IsWalkable(x+off.X, y+off.Y) {
			return true
		}
	}
	return false
}

// FarthestWalkableFrom scans the sampled lattice and returns the walkable
// point with the greatest squared distance from from. Used to place a
// goal token away from the actor spawn cluster. Returns false if the
// track has no sampled lattice points (degenerate, e.g. fully solid).
func (t *Track) FarthestWalkableFrom(from Vec2) (Vec2, bool) {
	if len(t.cells) == 0 {
		return Vec2{}, false
	}
	best := t.cells[0]
	bestDistSq := distSq(from, best)
	for _, c := range t.cells[1:] {
		d := distSq(from, c)
		if d > bestDistSq {
			bestDistSq = d
			best = c
		}
	}
	return best, true
}

// RandomWalkable draws a uniformly random point from the sampled lattice.
// Returns false if the lattice is empty.
func (t *Track) RandomWalkable(source *rng.Source) (Vec2, bool) {
	return rng.Choice(source, t.cells)
}

func distSq(a, b Vec2) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

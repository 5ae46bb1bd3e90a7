// Package spatial implements the uniform-cell spatial hash used to
// accelerate actor-actor and actor-item proximity queries. It is grounded
// on the teacher's bucketed grid (systems/spatial.go) but, unlike that
// grid, the track is bounded rather than toroidal: queries clamp to grid
// edges instead of wrapping.
package spatial

// CellSize is the fixed bucket edge length, in pixels.
const CellSize = 64

// Vec2 mirrors track.Vec2 to keep this package free of an import cycle;
// the engine converts between the two at call sites.
type Vec2 struct {
	X, Y float32
}

// Entry is one occupant inserted into the grid for a tick.
type Entry struct {
	Handle int
	Pos    Vec2
	Radius float32
}

// Grid is a uniform bucket grid over a bounded rectangle. It is rebuilt
// every tick: Clear followed by one Insert per occupant.
type Grid struct {
	width, height float32
	cols, rows    int

	buckets     [][]int // index by cell index, value is index into entries
	entries     []Entry
	dirtyCells  []int // cell indices touched since the last Clear, for cheap reset
	pairSeen    map[uint64]struct{}
}

// New creates a Grid covering [0, width) x [0, height).
func New(width, height float32) *Grid {
	cols := int(width/CellSize) + 1
	rows := int(height/CellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		width:    width,
		height:   height,
		cols:     cols,
		rows:     rows,
		buckets:  make([][]int, cols*rows),
		pairSeen: make(map[uint64]struct{}),
	}
}

// Clear empties the grid and the per-tick pair-dedup set, reusing the
// underlying slices for cells that were touched last tick.
func (g *Grid) Clear() {
	for _, idx := range g.dirtyCells {
		g.buckets[idx] = g.buckets[idx][:0]
	}
	g.dirtyCells = g.dirtyCells[:0]
	g.entries = g.entries[:0]
	for k := range g.pairSeen {
		delete(g.pairSeen, k)
	}
}

func (g *Grid) cellCoord(x, y float32) (int, int) {
	cx := int(x / CellSize)
	cy := int(y / CellSize)
	if cx < 0 {
		cx = 0
	}
	if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

func (g *Grid) cellIndex(cx, cy int) int {
	return cy*g.cols + cx
}

// Insert places handle into the single cell containing pos. The radius is
// stored on the Entry for callers to test against; Nearby itself filters
// by center distance only and does not widen its search by it.
func (g *Grid) Insert(handle int, pos Vec2, radius float32) {
	entryIdx := len(g.entries)
	g.entries = append(g.entries, Entry{Handle: handle, Pos: pos, Radius: radius})

	cx, cy := g.cellCoord(pos.X, pos.Y)
	idx := g.cellIndex(cx, cy)
	if len(g.buckets[idx]) == 0 {
		g.dirtyCells = append(g.dirtyCells, idx)
	}
	g.buckets[idx] = append(g.buckets[idx], entryIdx)
}

// Nearby appends every entry within radius of pos (by center distance,
// not accounting for the queried point's own radius) to dst and returns
// the extended slice. exclude, if non-negative, is a handle skipped from
// the results (an actor never queries itself).
func (g *Grid) Nearby(dst []Entry, pos Vec2, radius float32, exclude int) []Entry {
	minCX, minCY := g.cellCoord(pos.X-radius, pos.Y-radius)
	maxCX, maxCY := g.cellCoord(pos.X+radius, pos.Y+radius)

	radiusSq := radius * radius
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, entryIdx := range g.buckets[g.cellIndex(cx, cy)] {
				e := g.entries[entryIdx]
				if e.Handle == exclude {
					continue
				}
				dx := e.Pos.X - pos.X
				dy := e.Pos.Y - pos.Y
				if dx*dx+dy*dy <= radiusSq {
					dst = append(dst, e)
				}
			}
		}
	}
	return dst
}

// pairKey packs two handles into an order-independent key so (a, b) and
// (b, a) collide to the same dedup slot.
func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// SeenPair reports whether (a, b) has already been recorded this tick via
// RecordPair; it does not itself record it. Callers use this to skip
// collision work already done from the other side of the pair.
func (g *Grid) SeenPair(a, b int) bool {
	_, ok := g.pairSeen[pairKey(a, b)]
	return ok
}

// RecordPair marks (a, b) as processed for the remainder of this tick.
func (g *Grid) RecordPair(a, b int) {
	g.pairSeen[pairKey(a, b)] = struct{}{}
}

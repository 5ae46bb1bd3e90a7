package track

import (
	"testing"

	"github.com/blindhorse/racesim/rng"
)

func solidRGBA(w, h int, walkableFn func(x, y int) bool) []byte {
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if walkableFn(x, y) {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = 255, 255, 255, 255
			} else {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = 0, 0, 0, 0
			}
		}
	}
	return buf
}

func TestNewRejectsBadDimensions(t *testing.T) {
	if _, err := New(0, 10, nil, 150); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestNewRejectsMismatchedBuffer(t *testing.T) {
	if _, err := New(10, 10, make([]byte, 4), 150); err == nil {
		t.Fatalf("expected error for short rgba buffer")
	}
}

func TestWalkablePredicate(t *testing.T) {
	w, h := 100, 100
	buf := solidRGBA(w, h, func(x, y int) bool { return x < 50 })
	tr, err := New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !tr.IsWalkable(10, 10) {
		t.Fatalf("expected (10,10) to be walkable")
	}
	if tr.IsWalkable(90, 10) {
		t.Fatalf("expected (90,10) to be non-walkable")
	}
}

func TestIsWalkableOutOfBounds(t *testing.T) {
	w, h := 50, 50
	buf := solidRGBA(w, h, func(x, y int) bool { return true })
	tr, _ := New(w, h, buf, 150)
	if tr.IsWalkable(-1, 0) || tr.IsWalkable(0, -1) || tr.IsWalkable(float32(w), 0) {
		t.Fatalf("expected out-of-bounds points to be non-walkable")
	}
}

func TestIsWalkableWithTolerance(t *testing.T) {
	w, h := 200, 200
	buf := solidRGBA(w, h, func(x, y int) bool { return x >= 100 })
	tr, _ := New(w, h, buf, 150)

	if tr.IsWalkable(95, 50) {
		t.Fatalf("expected (95,50) to be non-walkable directly")
	}
	if !tr.IsWalkableWithTolerance(95, 50, 10) {
		t.Fatalf("expected (95,50) to be walkable within tolerance of boundary")
	}
}

func TestFarthestWalkableFrom(t *testing.T) {
	w, h := 400, 400
	buf := solidRGBA(w, h, func(x, y int) bool { return true })
	tr, err := New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	from := Vec2{X: 40, Y: 40}
	far, ok := tr.FarthestWalkableFrom(from)
	if !ok {
		t.Fatalf("expected a farthest point on a fully walkable track")
	}
	if far.X < float32(w)/2 || far.Y < float32(h)/2 {
		t.Fatalf("expected farthest point near opposite corner, got %+v", far)
	}
}

func TestFarthestWalkableFromEmptyLattice(t *testing.T) {
	w, h := 400, 400
	buf := solidRGBA(w, h, func(x, y int) bool { return false })
	tr, err := New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := tr.FarthestWalkableFrom(Vec2{}); ok {
		t.Fatalf("expected no farthest point on a fully solid track")
	}
}

func TestRandomWalkableReturnsLatticePoint(t *testing.T) {
	w, h := 400, 400
	buf := solidRGBA(w, h, func(x, y int) bool { return true })
	tr, _ := New(w, h, buf, 150)

	source := rng.New(99)
	p, ok := tr.RandomWalkable(source)
	if !ok {
		t.Fatalf("expected a random walkable point")
	}
	found := false
	for _, c := range tr.WalkableCells() {
		if c == p {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("random walkable point %+v not in lattice", p)
	}
}

func TestRandomWalkableEmptyLattice(t *testing.T) {
	w, h := 400, 400
	buf := solidRGBA(w, h, func(x, y int) bool { return false })
	tr, _ := New(w, h, buf, 150)

	source := rng.New(1)
	if _, ok := tr.RandomWalkable(source); ok {
		t.Fatalf("expected no random walkable point on fully solid track")
	}
}

// transparentDarkRGBA builds a buffer where non-walkable pixels are dark
// and fully transparent (alpha 0), so brightness is the only signal and
// the opacity override never kicks in. Used for the canonical 64x64 scenario tracks, where a lattice margin
// wider than the track itself must still be clamped down to something.
func transparentDarkRGBA(w, h int, walkableFn func(x, y int) bool) []byte {
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if walkableFn(x, y) {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = 255, 255, 255, 255
			} else {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = 0, 0, 0, 0
			}
		}
	}
	return buf
}

// TestBuildLatticeNonEmptyOnCanonical64Track covers spec.md's §8 Scenario
// A: a 64x64 all-walkable track must still yield at least one sampled
// lattice cell, even though the default 40px margin exceeds half the
// track's own dimensions.
func TestBuildLatticeNonEmptyOnCanonical64Track(t *testing.T) {
	w, h := 64, 64
	buf := transparentDarkRGBA(w, h, func(x, y int) bool { return true })
	tr, err := New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if len(tr.WalkableCells()) == 0 {
		t.Fatal("expected a non-empty lattice on a 64x64 all-walkable track")
	}
}

// TestBuildLatticeSamplesSingleWalkablePixel covers spec.md's §8 Scenario
// B: a 64x64 track walkable only at (32,32) must still produce a lattice
// landing on that pixel, so RandomWalkable/FarthestWalkableFrom have
// something to return instead of silently failing.
func TestBuildLatticeSamplesSingleWalkablePixel(t *testing.T) {
	w, h := 64, 64
	buf := transparentDarkRGBA(w, h, func(x, y int) bool { return x == 32 && y == 32 })
	tr, err := New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	cells := tr.WalkableCells()
	if len(cells) != 1 {
		t.Fatalf("len(WalkableCells()) = %d, want 1", len(cells))
	}
	if cells[0].X != 32 || cells[0].Y != 32 {
		t.Fatalf("sampled cell = %+v, want {32, 32}", cells[0])
	}
}

package engine

import "github.com/blindhorse/racesim/track"

// openTrack builds a fully walkable w x h track for tests that don't
// care about wall geometry.
func openTrack(t interface{ Fatalf(string, ...any) }, w, h int) *track.Track {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4+0], buf[i*4+1], buf[i*4+2], buf[i*4+3] = 255, 255, 255, 255
	}
	trk, err := track.New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("building open track: %v", err)
	}
	return trk
}

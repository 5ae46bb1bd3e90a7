package effects

import (
	"testing"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

func TestApplyBoosterOverwritesMultiplier(t *testing.T) {
	status := &components.Status{}
	kin := &components.Kinematics{SpeedMultiplier: 1.0}

	ApplyBooster(status, kin, 1.5, 4000)
	if kin.SpeedMultiplier != 1.5 || !status.BoosterActive || status.BoosterRemainMs != 4000 {
		t.Fatalf("unexpected state after ApplyBooster: %+v %+v", status, kin)
	}

	ApplyBooster(status, kin, 2.0, 5000)
	if kin.SpeedMultiplier != 2.0 || status.BoosterRemainMs != 5000 {
		t.Fatalf("expected second booster to replace first, got %+v %+v", status, kin)
	}
}

func TestFireHalveAndExactRestore(t *testing.T) {
	status := &components.Status{}
	kin := &components.Kinematics{BaseSpeed: 2.0}

	ApplyFire(status, kin, 5000)
	if kin.BaseSpeed != 1.0 {
		t.Fatalf("expected base speed halved to 1.0, got %f", kin.BaseSpeed)
	}

	expired := Tick(status, kin, 5000)
	if !expired.Fire {
		t.Fatalf("expected fire to expire")
	}
	if kin.BaseSpeed != 2.0 {
		t.Fatalf("expected base speed restored to exact original 2.0, got %f", kin.BaseSpeed)
	}
}

func TestFireAppliedTwiceThenExpiryRestoresOriginal(t *testing.T) {
	status := &components.Status{}
	kin := &components.Kinematics{BaseSpeed: 2.0}

	ApplyFire(status, kin, 5000)
	ApplyFire(status, kin, 5000) // second hit while active: must not re-halve
	if kin.BaseSpeed != 1.0 {
		t.Fatalf("second fire hit during active window must not compound, got %f", kin.BaseSpeed)
	}

	Tick(status, kin, 5000)
	if kin.BaseSpeed != 2.0 {
		t.Fatalf("expected exact restore to 2.0 after stacked hits, got %f", kin.BaseSpeed)
	}
}

func TestParalyzeExpiresExactlyOnce(t *testing.T) {
	status := &components.Status{}
	kin := &components.Kinematics{}

	ApplyParalyze(status, 3000)
	e1 := Tick(status, kin, 1000)
	if e1.Paralyze {
		t.Fatalf("did not expect expiry before TTL elapses")
	}
	e2 := Tick(status, kin, 2000)
	if !e2.Paralyze {
		t.Fatalf("expected expiry once TTL elapses")
	}
	e3 := Tick(status, kin, 1000)
	if e3.Paralyze {
		t.Fatalf("expiry must not fire again once already cleared")
	}
}

func TestShieldAndMagnetTTL(t *testing.T) {
	status := &components.Status{}
	kin := &components.Kinematics{}

	ApplyBubble(status, 8000)
	ApplyMagnet(status, 5000)

	Tick(status, kin, 5000)
	if status.Magnetized {
		t.Fatalf("expected magnet expired after 5000ms")
	}
	if !status.Shielded {
		t.Fatalf("expected shield still active after 5000ms of an 8000ms TTL")
	}

	e := Tick(status, kin, 3000)
	if !e.Shield || status.Shielded {
		t.Fatalf("expected shield to expire at 8000ms total")
	}
}

func TestApplyTeleportMovesToWalkableCellAndResetsState(t *testing.T) {
	w, h := 200, 200
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4], buf[i*4+1], buf[i*4+2], buf[i*4+3] = 255, 255, 255, 255
	}
	trk, err := track.New(w, h, buf, 150)
	if err != nil {
		t.Fatalf("track.New failed: %v", err)
	}

	pos := &components.Position{X: 5, Y: 5}
	kin := &components.Kinematics{Heading: 0}
	stuck := &components.StuckState{Counter: 42}
	stuck.Push(1, 1, 1)

	source := rng.New(1)
	ok := ApplyTeleport(pos, kin, stuck, trk, source)
	if !ok {
		t.Fatalf("expected ApplyTeleport to succeed on a fully walkable track")
	}
	if !trk.IsWalkable(pos.X, pos.Y) {
		t.Fatalf("expected teleport destination to be walkable, got %+v", pos)
	}
	if stuck.Counter != 0 || stuck.Count != 0 {
		t.Fatalf("expected stuck state reset, got %+v", stuck)
	}
}

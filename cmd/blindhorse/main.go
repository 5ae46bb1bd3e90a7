// Command blindhorse drives the race simulation engine, either headless
// or in a raylib window, following main.go's flag set and Game.Update /
// UpdateHeadless split.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/blindhorse/racesim/assets"
	"github.com/blindhorse/racesim/camera"
	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/engine"
	"github.com/blindhorse/racesim/enginelog"
	"github.com/blindhorse/racesim/telemetry"
	"github.com/blindhorse/racesim/track"
)

var (
	seed        = flag.Uint64("seed", 42, "RNG seed (deterministic)")
	trackPath   = flag.String("track", "", "Path to a track raster image (required)")
	configPath  = flag.String("config", "", "Config YAML overlay file (empty = defaults)")
	headless    = flag.Bool("headless", false, "Run without a window")
	maxTicks    = flag.Int("max-ticks", 0, "Stop after N ticks (0 = run forever, useful with -headless)")
	logInterval = flag.Int("log", 0, "Log the snapshot every N ticks (0 = disabled)")
	snapshotDir = flag.String("snapshot-dir", "", "Directory to write JSON snapshots to (empty = disabled)")
)

const (
	screenWidth  = 1280
	screenHeight = 800
	actorRadius  = 10
)

var actorColors = [6]rl.Color{
	rl.Red, rl.Blue, rl.Green, rl.Yellow, rl.Purple, rl.Orange,
}

func main() {
	flag.Parse()

	if *trackPath == "" {
		log.Fatal("-track is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	width, height, rgba, err := assets.LoadTrackImage(*trackPath)
	if err != nil {
		log.Fatalf("loading track image: %v", err)
	}

	trk, err := track.New(width, height, rgba, 128)
	if err != nil {
		log.Fatalf("building track: %v", err)
	}

	eng, err := engine.New(cfg, trk, uint32(*seed))
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}

	if err := eng.StartRace(nil); err != nil {
		log.Fatalf("starting race: %v", err)
	}

	if *snapshotDir != "" {
		if err := os.MkdirAll(*snapshotDir, 0755); err != nil {
			log.Fatalf("creating snapshot dir: %v", err)
		}
	}

	if *headless {
		runHeadless(eng, cfg)
		return
	}
	runWindowed(eng, cfg, width, height)
}

func runHeadless(eng *engine.Engine, cfg *config.Config) {
	tick := 0
	dt := cfg.Derived.TickDtMs
	for *maxTicks == 0 || tick < *maxTicks {
		if _, err := eng.Tick(dt); err != nil {
			log.Fatalf("tick: %v", err)
		}
		tick++

		if *logInterval > 0 && tick%*logInterval == 0 {
			snap := eng.Snapshot()
			enginelog.Logf("tick=%d phase=%s total_races=%d", snap.Tick, snap.Phase, snap.TotalRaces)
		}
		if *snapshotDir != "" && *logInterval > 0 && tick%*logInterval == 0 {
			snap := eng.Snapshot()
			if _, err := telemetry.SaveSnapshot(&telemetry.Snapshot{Snapshot: snap}, *snapshotDir); err != nil {
				log.Printf("saving snapshot: %v", err)
			}
		}
	}
}

func runWindowed(eng *engine.Engine, cfg *config.Config, trackWidth, trackHeight int) {
	rl.InitWindow(screenWidth, screenHeight, "blindhorse")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(screenWidth, screenHeight, float32(trackWidth), float32(trackHeight))

	dt := cfg.Derived.TickDtMs
	tick := 0
	paused := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		handleCameraInput(cam)

		if !paused && (*maxTicks == 0 || tick < *maxTicks) {
			if _, err := eng.Tick(dt); err != nil {
				log.Fatalf("tick: %v", err)
			}
			tick++
		}

		snap := eng.Snapshot()

		rl.BeginDrawing()
		rl.ClearBackground(rl.DarkGray)
		drawTrack(cam, trackWidth, trackHeight)
		drawActors(cam, snap)
		drawGoal(cam, snap)
		drawHUD(snap)
		rl.EndDrawing()
	}
}

// handleCameraInput applies mouse-wheel zoom and right-drag panning, the
// same control scheme the teacher's toroidal camera supported before
// track bounds replaced world wrap.
func handleCameraInput(cam *camera.Camera) {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1.0 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		cam.Pan(-delta.X, -delta.Y)
	}
}

func drawTrack(cam *camera.Camera, width, height int) {
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(width), float32(height))
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), rl.White)
}

func drawActors(cam *camera.Camera, snap engine.Snapshot) {
	for _, a := range snap.Actors {
		if !cam.IsVisible(a.X, a.Y, actorRadius) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.X, a.Y)
		color := actorColors[a.Index%len(actorColors)]
		drawOrientedTriangle(sx, sy, a.Heading, actorRadius*cam.Zoom, color)
	}
}

func drawGoal(cam *camera.Camera, snap engine.Snapshot) {
	sx, sy := cam.WorldToScreen(snap.GoalX, snap.GoalY)
	rl.DrawCircle(int32(sx), int32(sy), 8*cam.Zoom, rl.Gold)
}

func drawHUD(snap engine.Snapshot) {
	rl.DrawText(snap.Phase, 10, 10, 20, rl.White)
	rl.DrawText(rl.TextFormat("race %d", snap.TotalRaces), 10, 34, 20, rl.White)
}

// drawOrientedTriangle draws a triangle pointing in the heading direction,
// the same shape the teacher's renderer uses for every organism.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	frontX := x + cos*radius*1.5
	frontY := y + sin*radius*1.5

	backAngle := heading + math.Pi*0.8
	backLeftX := x + float32(math.Cos(float64(backAngle)))*radius
	backLeftY := y + float32(math.Sin(float64(backAngle)))*radius

	backAngle = heading - math.Pi*0.8
	backRightX := x + float32(math.Cos(float64(backAngle)))*radius
	backRightY := y + float32(math.Sin(float64(backAngle)))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	rl.DrawTriangle(v1, v3, v2, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}

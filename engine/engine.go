// Package engine implements the deterministic race simulation core: the
// tick driver that advances locomotion, the spatial collision pass, the
// power-up/skill effect system, and the race lifecycle state machine. No
// component in this package ever calls up the stack — state flows down
// from Engine.Tick and events flow back up through the returned buffer.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/effects"
	"github.com/blindhorse/racesim/enginelog"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/spatial"
	"github.com/blindhorse/racesim/track"
)

// Sentinel errors for the contract violations and initialization failures
// named in §7. Runtime anomalies (NaN/Inf position) are never surfaced
// this way — they are recovered in place via a Level-3 teleport.
var (
	ErrNotReset          = errors.New("engine: race is not in a startable state")
	ErrTimeWentBackwards = errors.New("engine: tick delta must be positive")
	ErrInvalidTrack      = errors.New("engine: track has no walkable cells")
	ErrNoActors          = errors.New("engine: race has not been started")
)

const (
	// maxActors is the hard ceiling on actor count; Actor.index ranges
	// 0..=5 per §3 regardless of configuration.
	maxActors = 6

	// goalPickupRadiusPx is the default overlap radius used to resolve a
	// race when an actor reaches the goal token (§4.8).
	goalPickupRadiusPx = 16

	// formationColSpacingPx and the two row offsets implement the
	// 3x2 spawn formation referenced in §9's open question; a fresh
	// random anchor is chosen on every reset rather than reusing the
	// previous one (the resolved open question: "the source chooses a
	// new anchor on reset").
	formationColSpacingPx = 30
	formationRowOffsetPx  = 15
)

// itemHandleBase offsets item handles in the shared spatial grid so they
// never collide with actor indices (0..5).
const itemHandleBase = 1000

// Engine owns the entire simulation instance: the Track (borrowed,
// read-only), the RNG, the ECS world holding actors and world items, the
// spatial grid, and the race state machine. Nothing here is global.
type Engine struct {
	cfg    *config.Config
	trk    *track.Track
	seed   uint32
	source *rng.Source

	world       *ecs.World
	actors      *ecs.Map5[components.Position, components.Kinematics, components.Status, components.StuckState, components.AIState]
	actorsQuery *ecs.Filter5[components.Position, components.Kinematics, components.Status, components.StuckState, components.AIState]
	items       *ecs.Map2[components.Position, components.Item]
	itemsQuery  *ecs.Filter2[components.Position, components.Item]

	actorEntities []ecs.Entity // stable index order; actorEntities[i].index == i
	humanSet      map[int]bool

	goalEntity ecs.Entity
	hasGoal    bool

	itemEntities []ecs.Entity // grid handle (itemHandleBase + i) -> entity, rebuilt each tick

	lastBoosterSpawnTick int64
	lastSkillSpawnTick   int64

	grid *spatial.Grid
	fsm  *RaceFSM

	tick   int64
	events []Event
}

// New constructs an Engine bound to cfg and trk, seeded deterministically.
// It returns an initialization error if the track has no walkable cells.
// The engine starts with no actors; call StartRace to begin the first
// race.
func New(cfg *config.Config, trk *track.Track, seed uint32) (*Engine, error) {
	if len(trk.WalkableCells()) == 0 {
		return nil, ErrInvalidTrack
	}

	world := ecs.NewWorld()
	e := &Engine{
		cfg:         cfg,
		trk:         trk,
		seed:        seed,
		source:      rng.New(seed),
		world:       world,
		actors:      ecs.NewMap5[components.Position, components.Kinematics, components.Status, components.StuckState, components.AIState](world),
		actorsQuery: ecs.NewFilter5[components.Position, components.Kinematics, components.Status, components.StuckState, components.AIState](world),
		items:       ecs.NewMap2[components.Position, components.Item](world),
		itemsQuery:  ecs.NewFilter2[components.Position, components.Item](world),
		grid:        spatial.New(float32(trk.Width()), float32(trk.Height())),
		fsm:         NewRaceFSM(0),
		humanSet:    map[int]bool{},
	}
	return e, nil
}

// StartRace spawns the actor roster and begins the first Betting
// countdown. humanActors lists the indices (0-based, < configured
// max_players, clamped to 6) that are human-bid; every other slot is
// AI-controlled. It is only valid before any race has been started —
// later cycles reset and restart automatically inside Tick.
func (e *Engine) StartRace(humanActors []int) error {
	if e.fsm.Phase != PhaseReset || len(e.actorEntities) != 0 {
		return ErrNotReset
	}

	numActors := e.cfg.Game.MaxPlayers
	if numActors > maxActors {
		numActors = maxActors
	}
	if numActors < 1 {
		numActors = 1
	}

	for _, idx := range humanActors {
		if idx < 0 || idx >= numActors {
			return fmt.Errorf("engine: human actor index %d out of range [0,%d)", idx, numActors)
		}
		e.humanSet[idx] = true
	}

	for i := 0; i < numActors; i++ {
		pos := components.Position{}
		kin := components.Kinematics{SpeedMultiplier: 1.0}
		status := components.Status{}
		stuck := components.StuckState{}
		ai := components.AIState{IsAI: !e.humanSet[i]}
		entity := e.actors.NewEntity(&pos, &kin, &status, &stuck, &ai)
		e.actorEntities = append(e.actorEntities, entity)
	}

	e.resetRace()
	e.fsm.BeginFirstRace(e.tick)
	e.emit(Event{Kind: EventRaceStarted, Tick: e.tick, Actor: -1, Winner: NoWinner, TotalRaces: e.fsm.TotalRaces()})
	return nil
}

// Tick advances the simulation by one fixed step of dtMs milliseconds and
// returns the events emitted during it. Passing a non-positive dtMs is a
// contract violation: the call is rejected and nothing mutates.
func (e *Engine) Tick(dtMs float32) ([]Event, error) {
	if dtMs <= 0 {
		return nil, ErrTimeWentBackwards
	}
	if len(e.actorEntities) == 0 {
		return nil, ErrNoActors
	}

	e.events = e.events[:0]
	e.tick++
	dtMsInt := int32(dtMs)

	// prevPhase must be captured before runRacingTick, since a goal
	// overlap inside the pickup pass can already drive the FSM from
	// Racing to Resolved via GoalOverlap — capturing it after would make
	// every win-by-overlap resolution indistinguishable from "already
	// resolved" and swallow its EventRaceResolved.
	prevPhase := e.fsm.Phase

	if e.fsm.Phase == PhaseRacing {
		e.runRacingTick(dtMs, dtMsInt)
	}

	e.fsm.Advance(e.tick, e.cfg.Derived.CountdownTicks, e.cfg.Derived.RaceTimeLimitTicks, e.cfg.Derived.ResolutionTicks)

	if prevPhase == PhaseRacing && e.fsm.Phase == PhaseResolved {
		e.emit(Event{Kind: EventRaceResolved, Tick: e.tick, Actor: -1, Winner: e.fsm.Winner(), TotalRaces: e.fsm.TotalRaces()})
	}
	if e.fsm.Phase == PhaseReset {
		e.resetRace()
		e.fsm.FinishReset(e.tick)
		e.emit(Event{Kind: EventRaceReset, Tick: e.tick, Actor: -1, Winner: NoWinner, TotalRaces: e.fsm.TotalRaces()})
	}

	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out, nil
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)

	switch ev.Kind {
	case EventRaceStarted:
		enginelog.Logf("race_started tick=%d seed=%d total_races=%d", ev.Tick, e.seed, ev.TotalRaces)
	case EventRaceResolved:
		enginelog.Logf("race_resolved tick=%d winner=%d total_races=%d", ev.Tick, ev.Winner, ev.TotalRaces)
	case EventRaceReset:
		enginelog.Logf("race_reset tick=%d total_races=%d", ev.Tick, ev.TotalRaces)
	case EventActorResynced:
		slog.Warn("actor_resynced", "tick", ev.Tick, "actor", ev.Actor, "reason", ev.Reason)
	}
}

// runRacingTick performs §4.10 steps 1-4 for one tick while the race is
// active: clear the grid, step every actor, resolve collisions, and
// resolve pickups (including goal overlap, handed to the FSM).
func (e *Engine) runRacingTick(dtMs float32, dtMsInt int32) {
	e.grid.Clear()
	e.maybeSpawnItems()
	e.indexItemsInGrid()

	mv := e.movementParams()
	ai := e.aiParams()

	boosterPositions := e.boosterPositions()
	goalPos := e.goalPosition()

	for idx, entity := range e.actorEntities {
		pos, kin, status, stuck, aiState := e.actors.Get(entity)

		// Effect expiries fire before locomotion within the same tick —
		// this ordering is load-bearing for determinism (§5), even though
		// §4.10's per-actor step list reads AIPolicy -> Locomotion ->
		// effect decrement; §5 is authoritative here.
		effects.Tick(status, kin, dtMsInt)

		if !status.Paralyzed {
			if aiState.IsAI {
				var nearest *track.Vec2
				if len(boosterPositions) > 0 {
					p := nearestPoint(track.Vec2{X: pos.X, Y: pos.Y}, boosterPositions, 150)
					nearest = p
				}
				applyAIPolicy(e.source, kin, aiState, *pos, nearest, goalPos, dtMs, ai)
			}

			stepLocomotion(e.source, e.trk, pos, kin, stuck, aiState.IsAI, dtMs, float64(e.tick)*float64(dtMs), e.tick, mv)

			if outcome := applyStuckLadder(e.source, e.trk, pos, kin, stuck, e.cfg.Movement.SpeedBoostOnEscape); outcome.teleported {
				e.emit(Event{Kind: EventTeleported, Tick: e.tick, Actor: idx, Pos: track.Vec2{X: pos.X, Y: pos.Y}, Reason: outcome.reason})
			}

			if resyncIfInvalid(e.source, e.trk, pos) {
				e.emit(Event{Kind: EventActorResynced, Tick: e.tick, Actor: idx, Pos: track.Vec2{X: pos.X, Y: pos.Y}, Reason: "nan_resync"})
			}
		}

		e.grid.Insert(idx, spatial.Vec2{X: pos.X, Y: pos.Y}, e.cfg.Movement.PlayerCollisionRadius)
	}

	e.runCollisionPass()
	e.runPickupPass()
}

func (e *Engine) movementParams() movementParams {
	m := e.cfg.Movement
	return movementParams{
		directionChangeHuman:  m.DirectionChangeP,
		directionChangeAI:     m.DirectionChangeP * 0.8, // 0.016/0.02 ratio from §4.4 step 2
		directionChangeAmount: m.DirectionChangeAmount,
		wallLookAhead:         m.WallLookAhead,
		toleranceRadius:       m.ToleranceRadius,
		biorhythmAmp:          m.BiorhythmAmp,
	}
}

func (e *Engine) aiParams() aiParams {
	a := e.cfg.AI
	return aiParams{
		boosterBias: a.BoosterBias,
		pathBias:    a.PathBias,
		reactionMs:  (a.ReactionMsMin + a.ReactionMsMax) / 2,
		skillMul:    skillMultiplier(a.SkillLevel),
	}
}

// runCollisionPass implements §4.10 step 3: pairwise actor collisions via
// the spatial grid, each pair processed at most once via the pair-dedup
// set, in ascending (min_idx, max_idx) order.
func (e *Engine) runCollisionPass() {
	radius := e.cfg.Movement.PlayerCollisionRadius
	threshold := 2 * radius
	var neighbors []spatial.Entry

	for i, entityA := range e.actorEntities {
		posA, _, statusA, _, _ := e.actors.Get(entityA)
		neighbors = e.grid.Nearby(neighbors[:0], spatial.Vec2{X: posA.X, Y: posA.Y}, threshold, i)

		sort.Slice(neighbors, func(a, b int) bool { return neighbors[a].Handle < neighbors[b].Handle })

		for _, n := range neighbors {
			j := n.Handle
			if j >= itemHandleBase || j == i {
				continue
			}
			if e.grid.SeenPair(i, j) {
				continue
			}
			e.grid.RecordPair(i, j)

			entityB := e.actorEntities[j]
			posB, _, statusB, _, _ := e.actors.Get(entityB)

			dx := posB.X - posA.X
			dy := posB.Y - posA.Y
			if dx*dx+dy*dy >= threshold*threshold {
				continue
			}
			resolveCollision(posA, posB, statusA.Shielded, statusB.Shielded, statusA.Magnetized, statusB.Magnetized)
		}
	}
}

// indexItemsInGrid inserts every live world item into the shared spatial
// grid under a handle offset by itemHandleBase, and records the
// handle -> entity mapping the pickup pass uses to resolve a hit back to
// its entity. The goal radius is wide enough that a crossing is never
// missed between ticks at normal actor speeds.
func (e *Engine) indexItemsInGrid() {
	e.itemEntities = e.itemEntities[:0]
	query := e.itemsQuery.Query()
	for query.Next() {
		pos, item := query.Get()
		radius := e.cfg.Movement.PlayerCollisionRadius
		if item.Kind == components.ItemKindGoal {
			radius = goalPickupRadiusPx
		}
		handle := itemHandleBase + len(e.itemEntities)
		e.grid.Insert(handle, spatial.Vec2{X: pos.X, Y: pos.Y}, radius)
		e.itemEntities = append(e.itemEntities, query.Entity())
	}
}

// runPickupPass implements §4.10 step 4: overlap actors with world items,
// in ascending actor index order, using the grid to find nearby items,
// applying booster/skill effects and collecting goal overlaps for the
// FSM.
func (e *Engine) runPickupPass() {
	pickupRadius := e.cfg.Movement.PlayerCollisionRadius
	queryRadius := pickupRadius
	if goalPickupRadiusPx > queryRadius {
		queryRadius = goalPickupRadiusPx
	}

	var goalOverlaps []int
	var consumed []ecs.Entity
	var neighbors []spatial.Entry
	takenItem := make(map[int]bool, len(e.itemEntities))

	for idx, entity := range e.actorEntities {
		pos, kin, status, stuck, _ := e.actors.Get(entity)

		neighbors = e.grid.Nearby(neighbors[:0], spatial.Vec2{X: pos.X, Y: pos.Y}, queryRadius, idx)

		var matched ecs.Entity
		var matchedIdx int = -1
		var matchedKind components.ItemKind
		var matchedBooster components.BoosterKind
		found := false

		for _, n := range neighbors {
			if n.Handle < itemHandleBase {
				continue
			}
			itemIdx := n.Handle - itemHandleBase
			if itemIdx < 0 || itemIdx >= len(e.itemEntities) || takenItem[itemIdx] {
				continue
			}
			dx := n.Pos.X - pos.X
			dy := n.Pos.Y - pos.Y
			if dx*dx+dy*dy > n.Radius*n.Radius {
				continue
			}

			entity := e.itemEntities[itemIdx]
			_, item := e.items.Get(entity)
			if item.Kind == components.ItemKindGoal {
				goalOverlaps = append(goalOverlaps, idx)
				continue
			}

			matched = entity
			matchedIdx = itemIdx
			matchedKind = item.Kind
			matchedBooster = item.Booster
			found = true
			break
		}

		if found {
			e.applyPickup(idx, pos, kin, status, stuck, matchedKind, matchedBooster)
			takenItem[matchedIdx] = true
			consumed = append(consumed, matched)
		}
	}

	for _, entity := range consumed {
		e.items.Remove(entity)
	}

	if len(goalOverlaps) > 0 {
		e.fsm.GoalOverlap(e.tick, goalOverlaps, func(idx int) bool {
			_, _, status, _, _ := e.actors.Get(e.actorEntities[idx])
			return status.Magnetized
		})
	}
}

func (e *Engine) applyPickup(idx int, pos *components.Position, kin *components.Kinematics, status *components.Status, stuck *components.StuckState, kind components.ItemKind, booster components.BoosterKind) {
	switch kind {
	case components.ItemKindBooster:
		entry := boosterEntryFor(e.cfg.Powerups.BoosterCatalog, booster)
		effects.ApplyBooster(status, kin, entry.Multiplier, entry.DefaultTTLMs)
		e.emit(Event{Kind: EventPickedUp, Tick: e.tick, Actor: idx, ItemKind: "booster:" + entry.Name, Pos: track.Vec2{X: pos.X, Y: pos.Y}})

	case components.ItemKindThunder:
		e.castThunder(idx, status)

	case components.ItemKindFire:
		e.castFire(idx, kin)

	case components.ItemKindBubble:
		ttl := skillTTL(e.cfg.Powerups.SkillCatalog, "bubble", 8000)
		effects.ApplyBubble(status, ttl)
		e.emit(Event{Kind: EventSkillCast, Tick: e.tick, Actor: idx, ItemKind: "bubble"})

	case components.ItemKindMagnet:
		ttl := skillTTL(e.cfg.Powerups.SkillCatalog, "magnet", 5000)
		effects.ApplyMagnet(status, ttl)
		e.emit(Event{Kind: EventSkillCast, Tick: e.tick, Actor: idx, ItemKind: "magnet"})

	case components.ItemKindTeleport:
		e.castTeleport(idx)
	}
}

func (e *Engine) castThunder(caster int, _ *components.Status) {
	candidates := make([]int, 0, len(e.actorEntities))
	for i := range e.actorEntities {
		if i == caster {
			continue
		}
		_, _, status, _, _ := e.actors.Get(e.actorEntities[i])
		if !status.Paralyzed {
			candidates = append(candidates, i)
		}
	}

	targets := pickThunderTargets(e.source, candidates)
	ttl := skillTTL(e.cfg.Powerups.SkillCatalog, "thunder", 3000)
	for _, t := range targets {
		_, _, status, _, _ := e.actors.Get(e.actorEntities[t])
		effects.ApplyParalyze(status, ttl)
	}
	e.emit(Event{Kind: EventSkillCast, Tick: e.tick, Actor: caster, ItemKind: "thunder", Targets: targets})
}

func (e *Engine) castFire(caster int, _ *components.Kinematics) {
	candidates := make([]int, 0, len(e.actorEntities))
	for i := range e.actorEntities {
		if i != caster {
			candidates = append(candidates, i)
		}
	}

	targets := pickFireTargets(e.source, candidates)
	ttl := skillTTL(e.cfg.Powerups.SkillCatalog, "fire", 5000)
	for _, t := range targets {
		_, kin, status, _, _ := e.actors.Get(e.actorEntities[t])
		effects.ApplyFire(status, kin, ttl)
	}
	e.emit(Event{Kind: EventSkillCast, Tick: e.tick, Actor: caster, ItemKind: "fire", Targets: targets})
}

func (e *Engine) castTeleport(caster int) {
	targets := make([]int, 0, len(e.actorEntities))
	for i, entity := range e.actorEntities {
		pos, kin, _, stuck, _ := e.actors.Get(entity)
		if effects.ApplyTeleport(pos, kin, stuck, e.trk, e.source) {
			targets = append(targets, i)
		}
	}
	e.emit(Event{Kind: EventSkillCast, Tick: e.tick, Actor: caster, ItemKind: "teleport", Targets: targets})
}

// maybeSpawnItems spawns boosters/skills on their configured cadence
// while the race is active (§3 World Items spawn policy).
func (e *Engine) maybeSpawnItems() {
	ticksPerSec := int64(1000) / int64(e.cfg.Game.TickMs)
	boosterEveryTicks := int64(e.cfg.Powerups.BoosterSpawnEveryS) * ticksPerSec
	skillEveryTicks := int64(e.cfg.Powerups.SkillSpawnEveryS) * ticksPerSec

	if e.tick-e.lastBoosterSpawnTick >= boosterEveryTicks {
		e.spawnBooster()
		e.lastBoosterSpawnTick = e.tick
	}
	if e.tick-e.lastSkillSpawnTick >= skillEveryTicks {
		e.spawnSkill()
		e.lastSkillSpawnTick = e.tick
	}
}

func (e *Engine) spawnBooster() {
	entry, ok := chooseBoosterEntry(e.source, e.cfg.Powerups.BoosterCatalog)
	if !ok {
		return
	}
	dest, ok := e.trk.RandomWalkable(e.source)
	if !ok {
		return
	}
	kind := boosterKindForName(entry.Name)
	pos := components.Position{X: dest.X, Y: dest.Y}
	item := components.Item{Kind: components.ItemKindBooster, Booster: kind, SpawnedTick: e.tick}
	e.items.NewEntity(&pos, &item)
	e.emit(Event{Kind: EventBoosterSpawned, Tick: e.tick, Actor: -1, ItemKind: "booster:" + entry.Name, Pos: dest})
}

func (e *Engine) spawnSkill() {
	entry, ok := chooseSkillEntry(e.source, e.cfg.Powerups.SkillCatalog)
	if !ok {
		return
	}
	dest, ok := e.trk.RandomWalkable(e.source)
	if !ok {
		return
	}
	kind := skillKindForName(entry.Name)
	pos := components.Position{X: dest.X, Y: dest.Y}
	item := components.Item{Kind: kind, SpawnedTick: e.tick}
	e.items.NewEntity(&pos, &item)
	e.emit(Event{Kind: EventSkillSpawned, Tick: e.tick, Actor: -1, ItemKind: entry.Name, Pos: dest})
}

// resetRace respawns every actor onto a fresh random formation anchor,
// clears all world items, and places a new goal token at the walkable
// cell farthest from the spawn cluster. Used both by the first StartRace
// call and by every automatic Reset -> Betting cycle.
func (e *Engine) resetRace() {
	anchor, ok := e.trk.RandomWalkable(e.source)
	if !ok {
		return
	}

	positions := make([]track.Vec2, 0, len(e.actorEntities))
	for i, entity := range e.actorEntities {
		col := i % 3
		row := i / 3
		rowOffset := float32(-formationRowOffsetPx)
		if row == 1 {
			rowOffset = formationRowOffsetPx
		}
		spawnPos := track.Vec2{X: anchor.X + float32(col)*formationColSpacingPx, Y: anchor.Y + rowOffset}
		positions = append(positions, spawnPos)

		pos, kin, status, stuck, aiState := e.actors.Get(entity)
		pos.X, pos.Y = spawnPos.X, spawnPos.Y
		*kin = components.Kinematics{
			SpeedMultiplier: 1.0,
			BaseSpeed:       e.source.FloatRange(e.cfg.Movement.BaseSpeedMin, e.cfg.Movement.BaseSpeedMax),
			BiorhythmFreq:   e.source.FloatRange(0.5, 2.0),
			BiorhythmPhase:  e.source.FloatRange(0, 2*float32(math.Pi)),
		}
		kin.CurrentSpeed = kin.BaseSpeed
		*status = components.Status{}
		*stuck = components.StuckState{}
		aiState.CooldownMs = 0
	}

	query := e.itemsQuery.Query()
	var toRemove []ecs.Entity
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, entity := range toRemove {
		e.items.Remove(entity)
	}
	e.hasGoal = false

	centroid := spawnClusterCentroid(positions)
	goalPos, ok := e.trk.FarthestWalkableFrom(centroid)
	if ok {
		pos := components.Position{X: goalPos.X, Y: goalPos.Y}
		item := components.Item{Kind: components.ItemKindGoal, SpawnedTick: e.tick}
		e.goalEntity = e.items.NewEntity(&pos, &item)
		e.hasGoal = true
	}

	e.lastBoosterSpawnTick = e.tick
	e.lastSkillSpawnTick = e.tick
}

func (e *Engine) boosterPositions() []track.Vec2 {
	var out []track.Vec2
	query := e.itemsQuery.Query()
	for query.Next() {
		pos, item := query.Get()
		if item.Kind == components.ItemKindBooster {
			out = append(out, track.Vec2{X: pos.X, Y: pos.Y})
		}
	}
	return out
}

func (e *Engine) goalPosition() track.Vec2 {
	if !e.hasGoal {
		return track.Vec2{}
	}
	pos, _ := e.items.Get(e.goalEntity)
	return track.Vec2{X: pos.X, Y: pos.Y}
}

func nearestPoint(from track.Vec2, candidates []track.Vec2, maxDist float32) *track.Vec2 {
	maxDistSq := maxDist * maxDist
	bestIdx := -1
	bestDistSq := maxDistSq
	for i, c := range candidates {
		dx := c.X - from.X
		dy := c.Y - from.Y
		d := dx*dx + dy*dy
		if d <= bestDistSq {
			bestDistSq = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return &candidates[bestIdx]
}

// resyncIfInvalid recovers a NaN/Inf position via a Level-3 teleport,
// treating it purely as a runtime anomaly (§7) rather than a surfaced
// error.
func resyncIfInvalid(source *rng.Source, trk *track.Track, pos *components.Position) bool {
	if !math.IsNaN(float64(pos.X)) && !math.IsInf(float64(pos.X), 0) &&
		!math.IsNaN(float64(pos.Y)) && !math.IsInf(float64(pos.Y), 0) {
		return false
	}
	dest, ok := trk.RandomWalkable(source)
	if !ok {
		return false
	}
	pos.X, pos.Y = dest.X, dest.Y
	return true
}

func boosterKindForName(name string) components.BoosterKind {
	switch name {
	case "memex":
		return components.BoosterMemex
	case "twitter":
		return components.BoosterTwitter
	case "banana":
		return components.BoosterBanana
	case "king_kong":
		return components.BoosterKingKong
	case "toilet_paper":
		return components.BoosterToiletPaper
	case "toilet":
		return components.BoosterToilet
	case "poo":
		return components.BoosterPoo
	default:
		return components.BoosterAntenna
	}
}

func skillKindForName(name string) components.ItemKind {
	switch name {
	case "fire":
		return components.ItemKindFire
	case "bubble":
		return components.ItemKindBubble
	case "magnet":
		return components.ItemKindMagnet
	case "teleport":
		return components.ItemKindTeleport
	default:
		return components.ItemKindThunder
	}
}

func boosterEntryFor(catalog []config.BoosterEntry, kind components.BoosterKind) config.BoosterEntry {
	names := []string{"antenna", "memex", "twitter", "banana", "king_kong", "toilet_paper", "toilet", "poo"}
	want := "antenna"
	if int(kind) < len(names) {
		want = names[kind]
	}
	for _, entry := range catalog {
		if entry.Name == want {
			return entry
		}
	}
	return config.BoosterEntry{Name: want, Multiplier: 1.2, DefaultTTLMs: 4000}
}

func skillTTL(catalog []config.SkillEntry, name string, fallback int32) int32 {
	for _, entry := range catalog {
		if entry.Name == name {
			return entry.DefaultTTLMs
		}
	}
	return fallback
}

// Snapshot returns the minimal serializable state needed to resume or
// replay the simulation at this tick boundary (§6).
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Version:     SnapshotVersion,
		Seed:        e.seed,
		TrackWidth:  e.trk.Width(),
		TrackHeight: e.trk.Height(),
		Phase:       e.fsm.Phase.String(),
		Tick:        e.tick,
		TotalRaces:  e.fsm.TotalRaces(),
	}

	for _, entity := range e.actorEntities {
		pos, kin, status, _, _ := e.actors.Get(entity)
		snap.Actors = append(snap.Actors, ActorSnapshot{
			Index:      len(snap.Actors),
			X:          pos.X,
			Y:          pos.Y,
			Heading:    kin.Heading,
			Speed:      kin.CurrentSpeed,
			Paralyzed:  status.Paralyzed,
			Shielded:   status.Shielded,
			Magnetized: status.Magnetized,
			Boosted:    status.BoosterActive,
		})
	}

	query := e.itemsQuery.Query()
	for query.Next() {
		pos, item := query.Get()
		if item.Kind == components.ItemKindGoal {
			snap.GoalX, snap.GoalY = pos.X, pos.Y
			continue
		}
		snap.Items = append(snap.Items, ItemSnapshot{Kind: itemKindLabel(item), X: pos.X, Y: pos.Y})
	}

	if e.fsm.Phase == PhaseRacing {
		remainingTicks := e.cfg.Derived.RaceTimeLimitTicks - e.fsm.TicksInPhase(e.tick)
		snap.RaceRemainingS = float64(remainingTicks) * float64(e.cfg.Game.TickMs) / 1000
	}

	return snap
}

func itemKindLabel(item *components.Item) string {
	switch item.Kind {
	case components.ItemKindThunder:
		return "thunder"
	case components.ItemKindFire:
		return "fire"
	case components.ItemKindBubble:
		return "bubble"
	case components.ItemKindMagnet:
		return "magnet"
	case components.ItemKindTeleport:
		return "teleport"
	case components.ItemKindGoal:
		return "goal"
	default:
		return "booster"
	}
}

// Package components defines the ECS components that make up an actor in
// the race simulation. Each concern lives in its own small struct, the
// way the teacher splits Position/Velocity/Rotation/Body rather than one
// monolithic entity struct; effects mutate fields in place, never the
// shape of these structs.
package components

// Position is an actor's or item's world coordinate in track pixels.
type Position struct {
	X, Y float32
}

// RecentPosition is one entry of an actor's stuck-detection history.
type RecentPosition struct {
	X, Y float32
	Tick int64
}

// RecentPositionCapacity is the fixed ring-buffer size backing StuckState.
const RecentPositionCapacity = 10

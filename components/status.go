package components

// Status holds every timed effect that can be active on an actor at once.
// Fields are fixed regardless of which effects are active — a closed set
// of optional slots, not a dynamic bag of properties — so effects mutate
// values in place and never change the shape of the struct.
type Status struct {
	Paralyzed        bool
	ParalyzeRemainMs int32

	Shielded        bool
	ShieldRemainMs  int32

	Magnetized      bool
	MagnetRemainMs  int32

	BoosterActive   bool
	BoosterRemainMs int32

	// FireDelta is the amount subtracted from Kinematics.BaseSpeed by a
	// fire skill hit. Restoring on expiry adds this back exactly rather
	// than doubling BaseSpeed, so repeated fire hits never compound.
	FireActive   bool
	FireRemainMs int32
	FireDelta    float32
}

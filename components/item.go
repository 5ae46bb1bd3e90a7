package components

// ItemKind identifies what a world item does on pickup. It is a closed
// enum, never a string key or injected handler, per the catalog being
// data-driven rather than plugin-extensible.
type ItemKind uint8

const (
	ItemKindBooster ItemKind = iota
	ItemKindThunder
	ItemKindFire
	ItemKindBubble
	ItemKindMagnet
	ItemKindTeleport
	ItemKindGoal
)

// BoosterKind identifies which speed-multiplier flavor a booster item
// grants on pickup; all share the same pickup/expiry machinery and only
// differ in multiplier and default TTL (§3 status-effect catalog).
type BoosterKind uint8

const (
	BoosterAntenna BoosterKind = iota
	BoosterMemex
	BoosterTwitter
	BoosterBanana
	BoosterKingKong
	BoosterToiletPaper
	BoosterToilet
	BoosterPoo
)

// Item is a world pickup: a booster, skill, or the race's single goal
// token. Goal items never expire or get consumed by pickup machinery;
// RaceFSM handles goal overlap separately.
type Item struct {
	Kind        ItemKind
	Booster     BoosterKind // meaningful only when Kind == ItemKindBooster
	SpawnedTick int64
}

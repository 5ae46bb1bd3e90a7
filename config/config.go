// Package config provides configuration loading and access for the race
// simulation. Defaults live in an embedded YAML file; an optional overlay
// file on disk is merged on top, field by field.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable simulation parameter. It is immutable once
// loaded; the engine is constructed with a *Config rather than reaching
// for a package-global, so a race never depends on load order of other
// packages. The commands under cmd/ also call Load directly; the Cfg()
// convenience accessor has no caller in this module.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Movement MovementConfig `yaml:"movement"`
	AI       AIConfig       `yaml:"ai"`
	Powerups PowerupsConfig `yaml:"powerups"`
	RNG      RNGConfig      `yaml:"rng"`

	Derived DerivedConfig `yaml:"-"`
}

// GameConfig holds race lifecycle timing and player bounds.
type GameConfig struct {
	MaxPlayers     int `yaml:"max_players"`
	RaceTimeLimitS int `yaml:"race_time_limit_s"`
	TickMs         int `yaml:"tick_ms"`
	CountdownS     int `yaml:"countdown_s"`
	ResolutionS    int `yaml:"resolution_s"`
}

// MovementConfig holds locomotion and collision tuning.
type MovementConfig struct {
	BaseSpeedMin          float32 `yaml:"base_speed_min"`
	BaseSpeedMax          float32 `yaml:"base_speed_max"`
	DirectionChangeP      float32 `yaml:"direction_change_p"`
	DirectionChangeAmount float32 `yaml:"direction_change_amount"`
	BiorhythmAmp          float32 `yaml:"biorhythm_amp"`
	SpeedBoostOnEscape    float32 `yaml:"speed_boost_on_escape"`
	CollisionSpeedMul     float32 `yaml:"collision_speed_mul"`
	StuckThresholdPx      float32 `yaml:"stuck_threshold_px"`
	PlayerCollisionRadius float32 `yaml:"player_collision_radius"`
	WallLookAhead         float32 `yaml:"wall_look_ahead"`
	ToleranceRadius       float32 `yaml:"tolerance_radius"`
}

// AIConfig holds AI reaction-time and bias tuning.
type AIConfig struct {
	SkillLevel    string  `yaml:"skill_level"`
	ReactionMsMin float32 `yaml:"reaction_ms_min"`
	ReactionMsMax float32 `yaml:"reaction_ms_max"`
	BoosterBias   float32 `yaml:"booster_bias"`
	SkillUseP     float32 `yaml:"skill_use_p"`
	PathBias      float32 `yaml:"path_bias"`
}

// PowerupsConfig holds world-item spawn cadence and catalogs.
type PowerupsConfig struct {
	BoosterSpawnEveryS int            `yaml:"booster_spawn_every_s"`
	SkillSpawnEveryS   int            `yaml:"skill_spawn_every_s"`
	BoosterCatalog     []BoosterEntry `yaml:"booster_catalog"`
	SkillCatalog       []SkillEntry   `yaml:"skill_catalog"`
}

// BoosterEntry describes one booster's speed multiplier and TTL.
type BoosterEntry struct {
	Name         string  `yaml:"name"`
	Multiplier   float32 `yaml:"multiplier"`
	DefaultTTLMs int32   `yaml:"default_ttl_ms"`
}

// SkillEntry describes one skill's default TTL.
type SkillEntry struct {
	Name         string `yaml:"name"`
	DefaultTTLMs int32  `yaml:"default_ttl_ms"`
}

// RNGConfig holds the deterministic seed. The engine takes its seed as
// an explicit engine.New argument and does not read this field; the
// commands under cmd/ supply their own seeds (cmd/blindhorse from its
// -seed flag).
type RNGConfig struct {
	Seed *uint32 `yaml:"seed"`
}

// DerivedConfig holds values computed once after loading, so hot paths
// in the engine never recompute them.
type DerivedConfig struct {
	TickDtMs           float32
	RaceTimeLimitTicks int64
	CountdownTicks     int64
	ResolutionTicks    int64
}

// global holds the configuration loaded by Init for the Cfg()
// convenience accessor.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// WriteYAML serializes the config to path, used by the tuning CLI to
// persist the best parameter set found and by telemetry.OutputManager to
// record the exact config a run used alongside its CSV output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.TickDtMs = float32(c.Game.TickMs)
	ticksPerSec := int64(1000) / int64(c.Game.TickMs)
	c.Derived.RaceTimeLimitTicks = int64(c.Game.RaceTimeLimitS) * ticksPerSec
	c.Derived.CountdownTicks = int64(c.Game.CountdownS) * ticksPerSec
	c.Derived.ResolutionTicks = int64(c.Game.ResolutionS) * ticksPerSec
}

package arena

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// MapConfig describes one match setup: arena size, the static wall layout and
// the combat tuning shared by both sides. Difficulty tiers override speeds and
// the prediction horizon while reusing the same reflex logic.
type MapConfig struct {
	Bounds geometry.Bounds `yaml:"bounds"`
	Walls  []geometry.Rect `yaml:"walls"`

	PlayerSpeed float64 `yaml:"player_speed"`
	BotSpeed    float64 `yaml:"bot_speed"`

	BulletSpeed  float64 `yaml:"bullet_speed"`
	BulletRadius float64 `yaml:"bullet_radius"`
	BulletTTL    float64 `yaml:"bullet_ttl"`

	AgentRadius       float64 `yaml:"agent_radius"`
	PlayerCooldown    float64 `yaml:"player_cooldown"`
	BotCooldown       float64 `yaml:"bot_cooldown"`
	Damage            int     `yaml:"damage"`
	MaxHP             int     `yaml:"max_hp"`
	PredictHorizon    float64 `yaml:"predict_horizon"`
	ThreatReportRange float64 `yaml:"threat_report_range"`

	PlayerSpawn geometry.Vec2 `yaml:"player_spawn"`
	BotSpawn    geometry.Vec2 `yaml:"bot_spawn"`
}

// DefaultMapConfig returns the standard 800x600 nine-wall arena.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Bounds: geometry.Bounds{W: 800, H: 600},
		Walls: []geometry.Rect{
			{X: 160, Y: 80, W: 80, H: 140},
			{X: 350, Y: 120, W: 100, H: 50},
			{X: 560, Y: 80, W: 80, H: 140},
			{X: 120, Y: 300, W: 140, H: 50},
			{X: 540, Y: 300, W: 140, H: 50},
			{X: 300, Y: 250, W: 200, H: 50},
			{X: 160, Y: 400, W: 80, H: 140},
			{X: 560, Y: 400, W: 80, H: 140},
			{X: 340, Y: 430, W: 120, H: 50},
		},
		PlayerSpeed:       200,
		BotSpeed:          230,
		BulletSpeed:       420,
		BulletRadius:      5,
		BulletTTL:         2.5,
		AgentRadius:       16,
		PlayerCooldown:    0.22,
		BotCooldown:       0.14,
		Damage:            10,
		MaxHP:             100,
		PredictHorizon:    0.35,
		ThreatReportRange: 300,
		PlayerSpawn:       geometry.V(150, 300),
		BotSpawn:          geometry.V(650, 300),
	}
}

// LoadMapConfig reads a YAML map definition. Fields left out keep their
// defaults, so partial override files are valid.
func LoadMapConfig(r io.Reader) (MapConfig, error) {
	cfg := DefaultMapConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return MapConfig{}, fmt.Errorf("decode map config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return MapConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c MapConfig) Validate() error {
	if c.Bounds.W <= 0 || c.Bounds.H <= 0 {
		return fmt.Errorf("map bounds must be positive, got %gx%g", c.Bounds.W, c.Bounds.H)
	}
	if c.BotSpeed <= 0 || c.PlayerSpeed <= 0 {
		return fmt.Errorf("agent speeds must be positive")
	}
	if c.MaxHP <= 0 {
		return fmt.Errorf("max_hp must be positive, got %d", c.MaxHP)
	}
	for i, w := range c.Walls {
		if w.W <= 0 || w.H <= 0 {
			return fmt.Errorf("wall %d has non-positive size", i)
		}
	}
	return nil
}

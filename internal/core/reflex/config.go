// Package reflex is the per-tick motion safety layer. Once per simulation
// frame it turns the latest strategic intent, the tracked hostile projectiles
// and the static wall layout into a safe velocity for that frame.
//
// The computation is pure and stateless: identical inputs always produce
// identical outputs, nothing is retained between calls, and no input is
// mutated. It performs no allocation on the hot path and is intended to run
// well under a millisecond per tick.
package reflex

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the reflex layer. The values are empirical,
// not derived; difficulty tiers override a few of them and reuse the rest.
type Config struct {
	// Collision geometry.
	AgentRadius      float64 `yaml:"agent_radius"`
	ProjectileRadius float64 `yaml:"projectile_radius"`
	MarginBuffer     float64 `yaml:"margin_buffer"` // extra slack on top of the radii

	// Threat classification.
	DangerTimeWindow float64 `yaml:"danger_time_window"` // seconds; threats beyond this are ignored
	PassedAllowance  float64 `yaml:"passed_allowance"`   // seconds of tolerance for just-passed bullets
	MissFactor       float64 `yaml:"miss_factor"`        // miss distance cutoff, in collision margins

	// Dodge synthesis.
	DodgeBaseStrength float64 `yaml:"dodge_base_strength"`
	MinTCA            float64 `yaml:"min_tca"`              // urgency divisor floor, seconds
	ProbeDistance     float64 `yaml:"probe_distance"`       // how far ahead to probe a dodge direction
	ProbeFlipDot      float64 `yaml:"probe_flip_threshold"` // repulsion dot below this flips the dodge side

	// Walls.
	WallBuffer          float64 `yaml:"wall_buffer"`
	WallRepulseStrength float64 `yaml:"wall_repulse_strength"`
	RepulseDamping      float64 `yaml:"repulse_damping"` // weight of repulsion in the final blend

	// Intent arbitration.
	IntentBlend float64 `yaml:"intent_blend"` // intent share when dodging, before urgency suppression
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		AgentRadius:         16,
		ProjectileRadius:    5,
		MarginBuffer:        8,
		DangerTimeWindow:    1.2,
		PassedAllowance:     0.05,
		MissFactor:          2.5,
		DodgeBaseStrength:   3.5,
		MinTCA:              0.03,
		ProbeDistance:       30,
		ProbeFlipDot:        -0.5,
		WallBuffer:          38,
		WallRepulseStrength: 1.8,
		RepulseDamping:      0.5,
		IntentBlend:         0.30,
	}
}

// CollisionMargin is the effective hit radius: both body radii plus slack.
func (c Config) CollisionMargin() float64 {
	return c.AgentRadius + c.ProjectileRadius + c.MarginBuffer
}

// LoadConfig reads YAML tuning overrides on top of the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode reflex config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects tunings that would break the math.
func (c Config) Validate() error {
	if c.CollisionMargin() <= 0 {
		return fmt.Errorf("collision margin must be positive")
	}
	if c.DangerTimeWindow <= 0 {
		return fmt.Errorf("danger_time_window must be positive")
	}
	if c.MinTCA <= 0 {
		return fmt.Errorf("min_tca must be positive")
	}
	if c.IntentBlend < 0 || c.IntentBlend > 1 {
		return fmt.Errorf("intent_blend must be in [0,1], got %g", c.IntentBlend)
	}
	return nil
}

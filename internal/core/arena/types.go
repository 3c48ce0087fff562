// Package arena holds the plain value types describing a match: agents,
// projectiles, obstacles and the map configuration. It carries no behaviour
// beyond construction; the simulation and reflex layers operate on these
// values without owning them.
package arena

import "github.com/vectorclash/vectorclash/internal/core/geometry"

// Side tags which combatant owns an entity.
type Side uint8

const (
	SidePlayer Side = iota
	SideBot
)

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "bot"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideBot
	}
	return SidePlayer
}

// AgentState is the full kinematic and intent snapshot of one combatant.
// The intent fields are only ever overwritten with the strategic producer's
// latest decision; the reflex layer reads them and never writes them.
type AgentState struct {
	Side Side
	Pos  geometry.Vec2
	Vel  geometry.Vec2
	HP   int

	// Latest strategic intent, read-only inside the reflex core.
	IntentDir  geometry.Vec2
	FireIntent bool

	Cooldown float64 // seconds until the next shot is allowed
}

// Ready reports whether the agent can fire this tick.
func (a *AgentState) Ready() bool {
	return a.Cooldown <= 0
}

// Alive reports whether the agent is still in the match.
func (a *AgentState) Alive() bool {
	return a.HP > 0
}

// Projectile is a transient bullet. The reflex core receives these read-only
// each tick and keeps no reference across ticks.
type Projectile struct {
	Pos  geometry.Vec2
	Vel  geometry.Vec2
	Side Side
	TTL  float64 // seconds of flight time remaining
}

// Expired reports whether the projectile should be removed.
func (p *Projectile) Expired() bool {
	return p.TTL <= 0
}

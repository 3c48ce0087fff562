package reflex

import (
	"math"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// Compute is the per-tick reflex decision. It converts the agent's latest
// strategic intent, the currently tracked projectiles and the static wall
// layout into the velocity to apply this frame, plus the fire decision.
//
// Projectiles owned by the agent's own side are skipped, so the caller may
// pass the full projectile list unfiltered. Position integration and wall
// collision resolution happen in the caller; Compute only decides where the
// agent wants to go.
//
// The fire intent passes through untouched: the reflex layer arbitrates
// movement only, never the decision to shoot.
func (c Config) Compute(agent *arena.AgentState, projectiles []arena.Projectile, obstacles []geometry.Rect, topSpeed float64, bounds geometry.Bounds, dt float64) (vx, vy float64, fire bool) {
	_ = dt // closed-form prediction; kept for interface stability

	var dodge geometry.Vec2
	threatCount := 0
	maxUrgency := 0.0

	for i := range projectiles {
		p := &projectiles[i]
		if p.Side == agent.Side {
			continue
		}

		t, ok := c.assess(p.Pos, p.Vel, agent.Pos)
		if !ok {
			continue
		}

		dir, urgency := c.dodgeContribution(t, agent.Pos, obstacles, bounds)
		dodge = dodge.Add(dir.Scale(urgency))
		threatCount++
		maxUrgency = math.Max(maxUrgency, urgency)
	}

	// Arbitrate between the accumulated dodge and the strategic intent.
	// Urgency suppresses intent proportionally: at maximum urgency the
	// intent keeps only 30% of its base blend weight.
	var out geometry.Vec2
	if threatCount > 0 {
		normDodge := dodge.Normalize()
		urgencyScale := math.Min(maxUrgency/c.DodgeBaseStrength, 1.0)
		blend := c.IntentBlend * (1 - 0.7*urgencyScale)
		out = normDodge.Scale(1 - blend).Add(agent.IntentDir.Scale(blend))
	} else {
		out = agent.IntentDir
	}

	// Walls are never ignored, even mid-dodge.
	rep := c.WallRepulsion(agent.Pos, obstacles, bounds)
	out = out.Add(rep.Scale(c.RepulseDamping))

	// Last-resort perimeter clamp: inside the buffer, never point further in.
	if agent.Pos.X < c.WallBuffer && out.X < 0 {
		out.X = 0
	}
	if agent.Pos.X > bounds.W-c.WallBuffer && out.X > 0 {
		out.X = 0
	}
	if agent.Pos.Y < c.WallBuffer && out.Y < 0 {
		out.Y = 0
	}
	if agent.Pos.Y > bounds.H-c.WallBuffer && out.Y > 0 {
		out.Y = 0
	}

	v := out.Normalize().Scale(topSpeed)
	return v.X, v.Y, agent.FireIntent
}

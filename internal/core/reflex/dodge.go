package reflex

import (
	"math"

	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// dodgeContribution turns a single threat into a weighted escape direction.
//
// The escape direction is perpendicular to the projectile's travel, on the
// agent's side of the trajectory line at the moment of closest approach, so
// the agent increases separation instead of crossing the path. If a probe
// point ahead along that perpendicular is strongly wall-repelled, the
// opposite perpendicular is taken instead; dodging into a corner is worse
// than crossing the line.
func (c Config) dodgeContribution(t threat, agent geometry.Vec2, obstacles []geometry.Rect, bounds geometry.Bounds) (dir geometry.Vec2, urgency float64) {
	travel := t.vel.Normalize()

	perp := travel.Orthogonal()
	bulletAtTCA := t.pos.Add(t.vel.Scale(math.Max(t.tca, 0)))
	toAgent := agent.Sub(bulletAtTCA)
	if perp.Dot(toAgent) < 0 {
		perp = perp.Neg()
	}

	probe := agent.Add(perp.Scale(c.ProbeDistance))
	if c.WallRepulsion(probe, obstacles, bounds).Dot(perp) < c.ProbeFlipDot {
		perp = perp.Neg()
	}

	urgency = c.DodgeBaseStrength / math.Max(t.tca, c.MinTCA)
	hitFactor := math.Max(0, 1-t.missDist/c.CollisionMargin())
	urgency *= 0.4 + 0.6*hitFactor

	return perp, urgency
}

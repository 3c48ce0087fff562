package reflex

import (
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// ClosestApproach returns the time of closest approach between a projectile
// travelling at constant velocity and a stationary target, and the distance
// between them at that moment.
//
// A negative tca means the projectile already passed its nearest point. When
// the projectile is (numerically) not moving there is no approach to wait
// for, so tca is 0 and the miss distance is the current separation.
func ClosestApproach(pos, vel, target geometry.Vec2) (tca, missDist float64) {
	r := pos.Sub(target)
	speedSq := vel.MagSq()
	if speedSq < geometry.Epsilon {
		return 0, r.Mag()
	}

	tca = -r.Dot(vel) / speedSq
	at := pos.Add(vel.Scale(tca)).Sub(target)
	return tca, at.Mag()
}

// threat is one projectile judged to be on a near-term collision course.
type threat struct {
	pos      geometry.Vec2
	vel      geometry.Vec2
	tca      float64
	missDist float64
}

// assess classifies a projectile against the agent position. ok is false for
// projectiles that already passed, arrive too far in the future, or miss by a
// safe margin; those contribute nothing this tick.
func (c Config) assess(pos, vel, agent geometry.Vec2) (threat, bool) {
	tca, missDist := ClosestApproach(pos, vel, agent)

	if tca < -c.PassedAllowance || tca > c.DangerTimeWindow {
		return threat{}, false
	}
	if missDist >= c.CollisionMargin()*c.MissFactor {
		return threat{}, false
	}

	return threat{pos: pos, vel: vel, tca: tca, missDist: missDist}, true
}

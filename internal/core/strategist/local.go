package strategist

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vectorclash/vectorclash/internal/core/geometry"
	"github.com/vectorclash/vectorclash/internal/core/intent"
	"github.com/vectorclash/vectorclash/internal/core/snapshot"
)

// LocalDecider is a rule-based stand-in for the remote strategist, used when
// no endpoint is configured. It follows the same doctrine the remote is
// instructed with: strafe across close threats, otherwise close toward the
// enemy's predicted position, and fire whenever ready.
type LocalDecider struct {
	// CloseRange is the distance inside which the decider stops closing
	// and starts orbiting.
	CloseRange float64
}

func NewLocalDecider() *LocalDecider {
	return &LocalDecider{CloseRange: 250}
}

func (l *LocalDecider) Decide(_ context.Context, payload []byte) (intent.Decision, string, error) {
	var p snapshot.Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return intent.Decision{}, "", fmt.Errorf("decode snapshot: %w", err)
	}

	self := geometry.V(p.Bot.Pos[0], p.Bot.Pos[1])
	target := geometry.V(p.Enemy.PredictedPos[0], p.Enemy.PredictedPos[1])

	// Dodge first: strafe perpendicular to the closest reported threat.
	var dir geometry.Vec2
	closest := math.MaxFloat64
	for _, t := range p.Threats {
		tp := geometry.V(t.P[0], t.P[1])
		dist := tp.Sub(self).Mag()
		if dist < 200 && dist < closest {
			closest = dist
			travel := geometry.V(t.V[0], t.V[1]).Normalize()
			perp := travel.Orthogonal()
			if perp.Dot(self.Sub(tp)) < 0 {
				perp = perp.Neg()
			}
			dir = perp
		}
	}

	if dir.IsZero() {
		toTarget := target.Sub(self)
		if toTarget.Mag() > l.CloseRange {
			dir = toTarget.Normalize()
		} else {
			// Orbit: keep range, stay unpredictable.
			dir = toTarget.Normalize().OrthogonalCCW()
		}
	}

	return intent.Decision{DX: dir.X, DY: dir.Y, Fire: p.Bot.Ready}, "", nil
}

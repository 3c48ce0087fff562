package reflex

import (
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// surfaceEpsilon keeps an agent sitting exactly on a wall surface from
// producing a degenerate repulsion normal.
const surfaceEpsilon = 1e-3

// WallRepulsion computes the soft repulsion vector pushing away from arena
// edges and obstacle surfaces. Each surface within WallBuffer contributes a
// push along its outward normal with linear falloff: full WallRepulseStrength
// on contact, zero at the buffer boundary. Outside every buffer zone the
// field is exactly zero.
func (c Config) WallRepulsion(pos geometry.Vec2, obstacles []geometry.Rect, bounds geometry.Bounds) geometry.Vec2 {
	var rep geometry.Vec2

	edges := [4]struct {
		dist float64
		push geometry.Vec2
	}{
		{pos.X, geometry.V(1, 0)},
		{bounds.W - pos.X, geometry.V(-1, 0)},
		{pos.Y, geometry.V(0, 1)},
		{bounds.H - pos.Y, geometry.V(0, -1)},
	}
	for _, e := range edges {
		if e.dist < c.WallBuffer {
			strength := (1 - e.dist/c.WallBuffer) * c.WallRepulseStrength
			rep = rep.Add(e.push.Scale(strength))
		}
	}

	for _, o := range obstacles {
		closest := o.ClosestPoint(pos)
		away := pos.Sub(closest)
		dist := away.Mag()
		if dist < c.WallBuffer && dist > surfaceEpsilon {
			strength := (1 - dist/c.WallBuffer) * c.WallRepulseStrength
			rep = rep.Add(away.Normalize().Scale(strength))
		}
	}

	return rep
}

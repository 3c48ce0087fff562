package geometry

// Rect is an axis-aligned rectangle, the shape of every static obstacle.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ClosestPoint returns the point on the rectangle (surface or interior)
// nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: clamp(p.X, r.X, r.X+r.W),
		Y: clamp(p.Y, r.Y, r.Y+r.H),
	}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Bounds is the playable arena rectangle, anchored at the origin.
type Bounds struct {
	W float64 `json:"w" yaml:"width"`
	H float64 `json:"h" yaml:"height"`
}

// Cardinal direction indices into the result of NearestWallDistances.
const (
	North = iota
	East
	South
	West
)

// NearestWallDistances returns the distance from pos to the nearest blocking
// surface in each cardinal direction: [north, east, south, west].
//
// An obstacle only blocks a cardinal direction when pos is within the
// obstacle's span on the perpendicular axis; otherwise the arena edge is the
// nearest surface. The same function feeds both the reflex wall logic and the
// world snapshot sent to the strategist, so both always agree.
func NearestWallDistances(pos Vec2, obstacles []Rect, bounds Bounds) [4]float64 {
	dists := [4]float64{
		North: pos.Y,
		East:  bounds.W - pos.X,
		South: bounds.H - pos.Y,
		West:  pos.X,
	}

	for _, o := range obstacles {
		x1, y1, x2, y2 := o.X, o.Y, o.MaxX(), o.MaxY()
		if y2 <= pos.Y && x1 <= pos.X && pos.X <= x2 {
			dists[North] = min(dists[North], pos.Y-y2)
		}
		if y1 >= pos.Y && x1 <= pos.X && pos.X <= x2 {
			dists[South] = min(dists[South], y1-pos.Y)
		}
		if x2 <= pos.X && y1 <= pos.Y && pos.Y <= y2 {
			dists[West] = min(dists[West], pos.X-x2)
		}
		if x1 >= pos.X && y1 <= pos.Y && pos.Y <= y2 {
			dists[East] = min(dists[East], x1-pos.X)
		}
	}

	return dists
}

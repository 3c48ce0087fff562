package reflex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

const (
	testSpeed = 230.0
	testDt    = 1.0 / 60
)

func centerAgent(intentX, intentY float64, fire bool) arena.AgentState {
	return arena.AgentState{
		Side:       arena.SideBot,
		Pos:        geometry.V(400, 300),
		IntentDir:  geometry.V(intentX, intentY),
		FireIntent: fire,
	}
}

func hostileShot(x, y, vx, vy float64) arena.Projectile {
	return arena.Projectile{
		Pos:  geometry.V(x, y),
		Vel:  geometry.V(vx, vy),
		Side: arena.SidePlayer,
		TTL:  2.5,
	}
}

func TestCompute_NoThreatsFollowsIntent(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(0.6, -0.8, false)

	vx, vy, fire := cfg.Compute(&agent, nil, nil, testSpeed, testBounds, testDt)

	// Away from walls the output is the normalised intent at top speed.
	assert.InDelta(t, 0.6*testSpeed, vx, 1e-9)
	assert.InDelta(t, -0.8*testSpeed, vy, 1e-9)
	assert.False(t, fire)
}

func TestCompute_ZeroIntentZeroThreatsStandsStill(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(0, 0, false)

	vx, vy, _ := cfg.Compute(&agent, nil, nil, testSpeed, testBounds, testDt)

	assert.Equal(t, 0.0, vx)
	assert.Equal(t, 0.0, vy)
}

func TestCompute_WestEdgeClampNeverDigsIn(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(-1, 0, false)
	agent.Pos = geometry.V(cfg.WallBuffer/2, 300)

	vx, _, _ := cfg.Compute(&agent, nil, nil, testSpeed, testBounds, testDt)

	assert.GreaterOrEqual(t, vx, 0.0, "agent must never be steered further into the west edge")
}

func TestCompute_HeadOnThreatDodgesPerpendicular(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(0, 0, false)
	// Direct hit, tca = 0.1s.
	shot := hostileShot(400, 260, 0, 400)

	vx, vy, _ := cfg.Compute(&agent, []arena.Projectile{shot}, nil, testSpeed, testBounds, testDt)

	require.False(t, vx == 0 && vy == 0, "imminent threat must produce a dodge")
	// The dodge is perpendicular to the bullet's travel.
	dot := vx*shot.Vel.X + vy*shot.Vel.Y
	assert.InDelta(t, 0.0, dot/shot.Vel.Mag()/testSpeed, 1e-9)
}

func TestCompute_LongWindowLateralDodge(t *testing.T) {
	// Long-horizon tier: the bullet is 200 units out at 150/s, so its
	// closest approach sits just beyond the default 1.2s window.
	cfg := DefaultConfig()
	cfg.DangerTimeWindow = 1.5

	baseline := centerAgent(0, -1, true)
	vxBase, vyBase, _ := cfg.Compute(&baseline, nil, nil, testSpeed, testBounds, testDt)

	agent := centerAgent(0, -1, true)
	shot := hostileShot(400, 100, 0, 150)
	vx, vy, fire := cfg.Compute(&agent, []arena.Projectile{shot}, nil, testSpeed, testBounds, testDt)

	assert.Greater(t, math.Abs(vx), math.Abs(vxBase), "threat must add a lateral component")
	assert.Less(t, math.Abs(vy), math.Abs(vyBase), "dodge must displace the straight-line intent")
	assert.True(t, fire, "dodging never forces the fire intent off")
}

func TestCompute_DefaultWindowIgnoresDistantThreat(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(0, -1, false)
	// Same geometry as the scenario above: tca ~1.33s > 1.2s window.
	shot := hostileShot(400, 100, 0, 150)

	vx, vy, _ := cfg.Compute(&agent, []arena.Projectile{shot}, nil, testSpeed, testBounds, testDt)

	assert.InDelta(t, 0.0, vx, 1e-9)
	assert.InDelta(t, -testSpeed, vy, 1e-9, "a bullet outside the window contributes nothing")
}

func TestCompute_FriendlyProjectilesIgnored(t *testing.T) {
	cfg := DefaultConfig()
	agent := centerAgent(1, 0, false)
	own := hostileShot(400, 260, 0, 400)
	own.Side = arena.SideBot

	vx, vy, _ := cfg.Compute(&agent, []arena.Projectile{own}, nil, testSpeed, testBounds, testDt)

	assert.InDelta(t, testSpeed, vx, 1e-9)
	assert.InDelta(t, 0.0, vy, 1e-9)
}

func TestCompute_OppositeThreats(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("asymmetric pair keeps meaningful dodge", func(t *testing.T) {
		agent := centerAgent(0, 0, false)
		shots := []arena.Projectile{
			hostileShot(390, 260, 0, 400),  // from the north, offset left
			hostileShot(420, 340, 0, -400), // from the south, offset right
		}

		vx, vy, _ := cfg.Compute(&agent, shots, nil, testSpeed, testBounds, testDt)
		assert.Greater(t, math.Hypot(vx, vy), testSpeed*0.5,
			"non-degenerate opposite threats must not cancel each other out")
	})

	t.Run("perfectly symmetric pair cancels", func(t *testing.T) {
		// Deliberately symmetric: both bullets on the agent's exact
		// vertical with equal urgency pick opposing perpendiculars.
		// The cancellation is an accepted property of summing threat
		// vectors, inherited by design.
		agent := centerAgent(0, 0, false)
		shots := []arena.Projectile{
			hostileShot(400, 260, 0, 400),
			hostileShot(400, 340, 0, -400),
		}

		vx, vy, _ := cfg.Compute(&agent, shots, nil, testSpeed, testBounds, testDt)
		assert.InDelta(t, 0.0, vx, 1e-9)
		assert.InDelta(t, 0.0, vy, 1e-9)
	})
}

func TestCompute_ProbeFlipAvoidsWall(t *testing.T) {
	cfg := DefaultConfig()
	// Agent hugging the east arena edge; a bullet coming down its column
	// would normally push it further east (travel (0,1) -> perp (1,0)).
	agent := centerAgent(0, 0, false)
	agent.Pos = geometry.V(testBounds.W-30, 300)
	shot := hostileShot(testBounds.W-30, 260, 0, 400)

	vx, _, _ := cfg.Compute(&agent, []arena.Projectile{shot}, nil, testSpeed, testBounds, testDt)

	assert.Less(t, vx, 0.0, "probe must flip the dodge away from the east edge")
}

func TestCompute_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	walls := []geometry.Rect{{X: 300, Y: 250, W: 200, H: 50}}
	shots := []arena.Projectile{
		hostileShot(390, 260, 0, 400),
		hostileShot(100, 300, 300, 10),
	}

	agent1 := centerAgent(0.3, 0.7, true)
	agent2 := centerAgent(0.3, 0.7, true)

	vx1, vy1, f1 := cfg.Compute(&agent1, shots, walls, testSpeed, testBounds, testDt)
	vx2, vy2, f2 := cfg.Compute(&agent2, shots, walls, testSpeed, testBounds, testDt)

	assert.Equal(t, vx1, vx2)
	assert.Equal(t, vy1, vy2)
	assert.Equal(t, f1, f2)
}

func TestCompute_OutputBoundedByTopSpeed(t *testing.T) {
	cfg := DefaultConfig()
	shots := []arena.Projectile{
		hostileShot(390, 260, 0, 400),
		hostileShot(420, 340, -50, -400),
		hostileShot(200, 300, 400, 0),
	}
	agent := centerAgent(1, 1, false)

	vx, vy, _ := cfg.Compute(&agent, shots, nil, testSpeed, testBounds, testDt)

	speed := math.Hypot(vx, vy)
	assert.LessOrEqual(t, speed, testSpeed+1e-9)
}

func BenchmarkCompute(b *testing.B) {
	cfg := DefaultConfig()
	walls := arena.DefaultMapConfig().Walls
	agent := centerAgent(0.5, -0.5, true)

	shots := make([]arena.Projectile, 0, 16)
	for i := 0; i < 16; i++ {
		shots = append(shots, hostileShot(100+float64(i)*40, 100, 50, 300))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.Compute(&agent, shots, walls, testSpeed, testBounds, testDt)
	}
}

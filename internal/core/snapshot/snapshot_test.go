package snapshot

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

func testAgents() (bot, enemy *arena.AgentState) {
	bot = &arena.AgentState{
		Side: arena.SideBot,
		Pos:  geometry.V(650, 300),
		Vel:  geometry.V(-50, 0),
		HP:   80,
	}
	enemy = &arena.AgentState{
		Side: arena.SidePlayer,
		Pos:  geometry.V(150, 300),
		Vel:  geometry.V(100, 0),
		HP:   100,
	}
	return bot, enemy
}

func TestBuild_BasicFields(t *testing.T) {
	bot, enemy := testAgents()
	cfg := arena.DefaultMapConfig()

	p := Build(bot, enemy, nil, cfg, "aggressive")

	assert.Equal(t, [2]float64{650, 300}, p.Bot.Pos)
	assert.Equal(t, [2]float64{-50, 0}, p.Bot.Vel)
	assert.Equal(t, 80, p.Bot.HP)
	assert.True(t, p.Bot.Ready)

	assert.Equal(t, [2]float64{150, 300}, p.Enemy.Pos)
	// Predicted position extrapolates enemy velocity over the horizon.
	wantPred := 150 + 100*cfg.PredictHorizon
	assert.InDelta(t, wantPred, p.Enemy.PredictedPos[0], 0.05)

	assert.Empty(t, p.Threats)
	assert.Equal(t, "aggressive", p.Style)
}

func TestBuild_PredictedPosClampedToBounds(t *testing.T) {
	bot, enemy := testAgents()
	cfg := arena.DefaultMapConfig()
	enemy.Pos = geometry.V(cfg.Bounds.W-5, 300)
	enemy.Vel = geometry.V(400, 0)

	p := Build(bot, enemy, nil, cfg, "")
	assert.LessOrEqual(t, p.Enemy.PredictedPos[0], cfg.Bounds.W)
}

func TestBuild_ThreatFiltering(t *testing.T) {
	bot, enemy := testAgents()
	cfg := arena.DefaultMapConfig()

	projectiles := []arena.Projectile{
		// Hostile and close: reported.
		{Pos: geometry.V(600, 300), Vel: geometry.V(420, 0), Side: arena.SidePlayer, TTL: 2},
		// Own side: never reported.
		{Pos: geometry.V(640, 300), Vel: geometry.V(-420, 0), Side: arena.SideBot, TTL: 2},
		// Hostile but beyond the report range.
		{Pos: geometry.V(100, 100), Vel: geometry.V(420, 0), Side: arena.SidePlayer, TTL: 2},
	}

	p := Build(bot, enemy, projectiles, cfg, "")
	require.Len(t, p.Threats, 1)
	assert.Equal(t, [2]float64{600, 300}, p.Threats[0].P)
	assert.Equal(t, [2]float64{420, 0}, p.Threats[0].V)
}

func TestBuild_WallDistancesQuantised(t *testing.T) {
	bot, enemy := testAgents()
	bot.Pos = geometry.V(100.123, 300.456)
	cfg := arena.DefaultMapConfig()

	p := Build(bot, enemy, nil, cfg, "")
	for _, d := range p.Walls {
		assert.InDelta(t, math.Round(d*10), d*10, 1e-6, "wall distances are 0.1-quantised")
	}
}

func TestEncode_JSONSchema(t *testing.T) {
	bot, enemy := testAgents()
	cfg := arena.DefaultMapConfig()
	p := Build(bot, enemy, nil, cfg, "cautious")

	raw, digest, err := Encode(p)
	require.NoError(t, err)
	assert.NotZero(t, digest)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"bot", "enemy", "threats", "walls", "Style"} {
		assert.Contains(t, doc, key)
	}

	var botDoc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["bot"], &botDoc))
	for _, key := range []string{"pos", "vel", "hp", "ready"} {
		assert.Contains(t, botDoc, key)
	}

	var enemyDoc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["enemy"], &enemyDoc))
	assert.Contains(t, enemyDoc, "predicted_pos")
}

func TestEncode_DigestTracksContent(t *testing.T) {
	bot, enemy := testAgents()
	cfg := arena.DefaultMapConfig()

	p := Build(bot, enemy, nil, cfg, "")
	_, d1, err := Encode(p)
	require.NoError(t, err)
	_, d2, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "identical payloads share a digest")

	bot.Pos = bot.Pos.Add(geometry.V(5, 0))
	_, d3, err := Encode(Build(bot, enemy, nil, cfg, ""))
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3, "moving the agent changes the digest")

	// Sub-quantum jitter does not produce a new digest.
	bot.Pos = bot.Pos.Add(geometry.V(0.01, 0))
	_, d4, err := Encode(Build(bot, enemy, nil, cfg, ""))
	require.NoError(t, err)
	assert.Equal(t, d3, d4)
}

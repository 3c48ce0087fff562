// Package snapshot serialises the live world into the payload consumed by
// the strategic producer. Wall distances here come from the same
// geometry.NearestWallDistances the reflex layer uses, so the producer is
// never shown values that disagree with what the reflex acts on.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/geometry"
)

// Payload is the JSON document sent to the strategist each decision cycle.
type Payload struct {
	Bot     BotInfo    `json:"bot"`
	Enemy   EnemyInfo  `json:"enemy"`
	Threats []Threat   `json:"threats"`
	Walls   [4]float64 `json:"walls"`
	Style   string     `json:"Style"`
}

// BotInfo describes the agent the strategist is steering.
type BotInfo struct {
	Pos   [2]float64 `json:"pos"`
	Vel   [2]float64 `json:"vel"`
	HP    int        `json:"hp"`
	Ready bool       `json:"ready"`
}

// EnemyInfo describes the opponent, including where it is predicted to be
// one latency horizon from now. The strategist aims at PredictedPos.
type EnemyInfo struct {
	Pos          [2]float64 `json:"pos"`
	Vel          [2]float64 `json:"vel"`
	PredictedPos [2]float64 `json:"predicted_pos"`
}

// Threat is a hostile projectile close enough to be worth reporting.
type Threat struct {
	P [2]float64 `json:"p"`
	V [2]float64 `json:"v"`
}

// round1 quantises to 0.1 units. Coarser coordinates keep the payload small
// and stop sub-pixel jitter from producing a new digest every tick.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func vec(v geometry.Vec2) [2]float64 {
	return [2]float64{round1(v.X), round1(v.Y)}
}

// Build assembles the payload for one decision cycle. bot is the agent being
// steered; enemy is its opponent. Only enemy-owned projectiles within the
// configured report range are included as threats.
func Build(bot, enemy *arena.AgentState, projectiles []arena.Projectile, cfg arena.MapConfig, style string) Payload {
	pred := enemy.Pos.Add(enemy.Vel.Scale(cfg.PredictHorizon))
	pred.X = math.Max(0, math.Min(cfg.Bounds.W, pred.X))
	pred.Y = math.Max(0, math.Min(cfg.Bounds.H, pred.Y))

	threats := make([]Threat, 0, len(projectiles))
	for i := range projectiles {
		p := &projectiles[i]
		if p.Side == bot.Side {
			continue
		}
		if p.Pos.Sub(bot.Pos).Mag() >= cfg.ThreatReportRange {
			continue
		}
		threats = append(threats, Threat{P: vec(p.Pos), V: vec(p.Vel)})
	}

	walls := geometry.NearestWallDistances(bot.Pos, cfg.Walls, cfg.Bounds)
	for i := range walls {
		walls[i] = round1(walls[i])
	}

	return Payload{
		Bot: BotInfo{
			Pos:   vec(bot.Pos),
			Vel:   vec(bot.Vel),
			HP:    bot.HP,
			Ready: bot.Ready(),
		},
		Enemy: EnemyInfo{
			Pos:          vec(enemy.Pos),
			Vel:          vec(enemy.Vel),
			PredictedPos: vec(pred),
		},
		Threats: threats,
		Walls:   walls,
		Style:   style,
	}
}

// Encode marshals the payload and returns its bytes together with an xxhash
// digest. Consumers use the digest to detect that the world has not
// meaningfully changed between cycles.
func Encode(p Payload) ([]byte, uint64, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, 0, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, xxhash.Sum64(raw), nil
}

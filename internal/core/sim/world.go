// Package sim advances a match at a fixed tick rate. The bot side is driven
// by the latest strategic decision filtered through the reflex layer; the
// player side is driven by whatever input the caller supplies before each
// step. Position integration, wall push-out and damage live here, outside
// the reflex core.
package sim

import (
	"math"
	"sync/atomic"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/geometry"
	"github.com/vectorclash/vectorclash/internal/core/intent"
	"github.com/vectorclash/vectorclash/internal/core/observability/log"
	"github.com/vectorclash/vectorclash/internal/core/reflex"
	"github.com/vectorclash/vectorclash/internal/core/snapshot"
)

// PlayerInput is the human (or scripted opponent) command for one tick.
type PlayerInput struct {
	Dir  geometry.Vec2 // desired direction, normalised internally
	Fire bool
	Aim  geometry.Vec2 // where a fired shot is aimed
}

// World is one running match.
type World struct {
	cfg       arena.MapConfig
	reflexCfg reflex.Config
	slot      *intent.Slot
	logger    log.Log

	player      arena.AgentState
	bot         arena.AgentState
	projectiles []arena.Projectile
	input       PlayerInput

	tick    uint64
	elapsed float64
	over    bool
	winner  arena.Side

	// Published world view for the strategist, refreshed on a coarse
	// cadence. The pool goroutines read it without touching live state.
	snap      atomic.Pointer[snapshot.Payload]
	snapTimer float64
}

// snapshotInterval is how often the published strategist view is refreshed.
const snapshotInterval = 0.25

func NewWorld(cfg arena.MapConfig, reflexCfg reflex.Config, slot *intent.Slot, logger log.Log) *World {
	w := &World{
		cfg:       cfg,
		reflexCfg: reflexCfg,
		slot:      slot,
		logger:    logger.Named("sim"),
		player: arena.AgentState{
			Side: arena.SidePlayer,
			Pos:  cfg.PlayerSpawn,
			HP:   cfg.MaxHP,
		},
		bot: arena.AgentState{
			Side: arena.SideBot,
			Pos:  cfg.BotSpawn,
			HP:   cfg.MaxHP,
		},
	}
	first := w.buildSnapshot()
	w.snap.Store(&first)
	return w
}

// SetPlayerInput stores the player command applied on the next Step.
func (w *World) SetPlayerInput(in PlayerInput) {
	w.input = in
}

// Step advances the match by dt seconds.
func (w *World) Step(dt float64) {
	if w.over {
		return
	}
	w.tick++
	w.elapsed += dt

	// Latest strategic decision; never blocks, zero before the first one.
	d := w.slot.Load()
	w.bot.IntentDir = geometry.V(d.DX, d.DY)
	w.bot.FireIntent = d.Fire

	vx, vy, fire := w.reflexCfg.Compute(&w.bot, w.projectiles, w.cfg.Walls, w.cfg.BotSpeed, w.cfg.Bounds, dt)
	w.bot.Vel = geometry.V(vx, vy)

	if fire && w.bot.Ready() {
		aim := w.player.Pos.Add(w.player.Vel.Scale(w.cfg.PredictHorizon))
		w.fireFrom(&w.bot, aim, w.cfg.BotCooldown)
	}

	nx, ny := geometry.Normalize(w.input.Dir.X, w.input.Dir.Y)
	w.player.Vel = geometry.V(nx*w.cfg.PlayerSpeed, ny*w.cfg.PlayerSpeed)
	if w.input.Fire && w.player.Ready() {
		w.fireFrom(&w.player, w.input.Aim, w.cfg.PlayerCooldown)
	}

	w.integrate(&w.player, dt)
	w.integrate(&w.bot, dt)
	w.advanceProjectiles(dt)

	if !w.player.Alive() {
		w.finish(arena.SideBot)
	} else if !w.bot.Alive() {
		w.finish(arena.SidePlayer)
	}

	w.snapTimer += dt
	if w.snapTimer >= snapshotInterval {
		w.snapTimer = 0
		p := w.buildSnapshot()
		w.snap.Store(&p)
	}
}

func (w *World) buildSnapshot() snapshot.Payload {
	return snapshot.Build(&w.bot, &w.player, w.projectiles, w.cfg, "")
}

func (w *World) finish(winner arena.Side) {
	w.over = true
	w.winner = winner
	w.logger.Info("match over",
		log.String("winner", winner.String()),
		log.Uint64("ticks", w.tick),
		log.Float64("elapsed_s", w.elapsed))
}

func (w *World) fireFrom(a *arena.AgentState, target geometry.Vec2, cooldown float64) {
	dir := target.Sub(a.Pos)
	if dir.Mag() < 1 {
		return
	}
	dir = dir.Normalize()
	a.Cooldown = cooldown
	w.projectiles = append(w.projectiles, arena.Projectile{
		Pos:  a.Pos,
		Vel:  dir.Scale(w.cfg.BulletSpeed),
		Side: a.Side,
		TTL:  w.cfg.BulletTTL,
	})
}

func (w *World) integrate(a *arena.AgentState, dt float64) {
	a.Pos = a.Pos.Add(a.Vel.Scale(dt))
	w.resolveWalls(a)
	w.clampToArena(a)
	a.Cooldown -= dt
}

// resolveWalls pushes an agent out of any wall it overlaps along the axis of
// least overlap and zeroes that velocity component.
func (w *World) resolveWalls(a *arena.AgentState) {
	r := w.cfg.AgentRadius
	for _, wall := range w.cfg.Walls {
		if !overlapsWall(a.Pos, r, wall) {
			continue
		}

		overlapX := wall.MaxX() - (a.Pos.X - r)
		if a.Vel.X > 0 {
			overlapX = (a.Pos.X + r) - wall.X
		}
		overlapY := wall.MaxY() - (a.Pos.Y - r)
		if a.Vel.Y > 0 {
			overlapY = (a.Pos.Y + r) - wall.Y
		}

		if math.Abs(overlapX) < math.Abs(overlapY) {
			if a.Vel.X > 0 {
				a.Pos.X = wall.X - r
			} else {
				a.Pos.X = wall.MaxX() + r
			}
			a.Vel.X = 0
		} else {
			if a.Vel.Y > 0 {
				a.Pos.Y = wall.Y - r
			} else {
				a.Pos.Y = wall.MaxY() + r
			}
			a.Vel.Y = 0
		}
	}
}

func overlapsWall(pos geometry.Vec2, r float64, wall geometry.Rect) bool {
	return wall.X < pos.X+r && pos.X-r < wall.MaxX() &&
		wall.Y < pos.Y+r && pos.Y-r < wall.MaxY()
}

func (w *World) clampToArena(a *arena.AgentState) {
	r := w.cfg.AgentRadius
	a.Pos.X = math.Max(r, math.Min(w.cfg.Bounds.W-r, a.Pos.X))
	a.Pos.Y = math.Max(r, math.Min(w.cfg.Bounds.H-r, a.Pos.Y))
}

func (w *World) advanceProjectiles(dt float64) {
	remaining := w.projectiles[:0]
	for i := range w.projectiles {
		p := w.projectiles[i]
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.TTL -= dt

		if p.Expired() || w.projectileHitsWall(p) {
			continue
		}

		target := &w.player
		if p.Side == arena.SidePlayer {
			target = &w.bot
		}
		if target.Alive() && p.Pos.Sub(target.Pos).Mag() < w.cfg.AgentRadius+w.cfg.BulletRadius {
			target.HP -= w.cfg.Damage
			w.logger.Debug("hit",
				log.String("target", target.Side.String()),
				log.Int("hp", target.HP))
			continue
		}

		remaining = append(remaining, p)
	}
	w.projectiles = remaining
}

func (w *World) projectileHitsWall(p arena.Projectile) bool {
	for _, wall := range w.cfg.Walls {
		if wall.Contains(p.Pos) {
			return true
		}
	}
	return p.Pos.X < 0 || p.Pos.X > w.cfg.Bounds.W || p.Pos.Y < 0 || p.Pos.Y > w.cfg.Bounds.H
}

// Snapshot returns the most recently published strategist payload with the
// given style observation injected. Safe to call from any goroutine.
func (w *World) Snapshot(style string) snapshot.Payload {
	p := *w.snap.Load()
	p.Style = style
	return p
}

// Accessors used by telemetry and tests.

func (w *World) Tick() uint64             { return w.tick }
func (w *World) Over() bool               { return w.over }
func (w *World) Winner() arena.Side       { return w.winner }
func (w *World) Player() arena.AgentState { return w.player }
func (w *World) Bot() arena.AgentState    { return w.bot }

func (w *World) Projectiles() []arena.Projectile { return w.projectiles }

package main

import (
	"math"
	"math/rand"

	"github.com/vectorclash/vectorclash/internal/core/geometry"
	"github.com/vectorclash/vectorclash/internal/core/sim"
)

// scriptedPlayer drives the player side in headless matches: it wanders on a
// random heading, re-rolled every couple of seconds, and fires at the bot
// whenever its cooldown allows.
type scriptedPlayer struct {
	rng   *rand.Rand
	dir   geometry.Vec2
	timer float64
}

func newScriptedPlayer(seed int64) *scriptedPlayer {
	return &scriptedPlayer{rng: rand.New(rand.NewSource(seed))}
}

func (s *scriptedPlayer) Input(w *sim.World, dt float64) sim.PlayerInput {
	s.timer -= dt
	if s.timer <= 0 {
		s.timer = 1.0 + s.rng.Float64()*1.5
		angle := s.rng.Float64() * 2 * math.Pi
		s.dir = geometry.V(math.Cos(angle), math.Sin(angle))
	}

	return sim.PlayerInput{
		Dir:  s.dir,
		Fire: true,
		Aim:  w.Bot().Pos,
	}
}

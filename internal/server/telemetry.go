// Package server streams live match telemetry to websocket spectators.
// Frames are broadcast fan-out; a spectator that cannot keep up is dropped
// rather than allowed to stall the tick loop.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/websocket"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/observability/log"
	"github.com/vectorclash/vectorclash/internal/core/sim"
	"github.com/vectorclash/vectorclash/pkg/generic"
)

// encodeBufs amortises frame encoding across ticks.
var encodeBufs = generic.NewPool(func() *bytes.Buffer { return &bytes.Buffer{} })

var ErrServerClosed = errors.New("telemetry server is closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Frame is one spectator update.
type Frame struct {
	Tick        uint64       `json:"tick"`
	Player      AgentFrame   `json:"player"`
	Bot         AgentFrame   `json:"bot"`
	Projectiles []ProjFrame  `json:"projectiles"`
	Over        bool         `json:"over"`
	Winner      string       `json:"winner,omitempty"`
}

// AgentFrame is the spectator view of one combatant.
type AgentFrame struct {
	Pos [2]float64 `json:"pos"`
	Vel [2]float64 `json:"vel"`
	HP  int        `json:"hp"`
}

// ProjFrame is the spectator view of one projectile.
type ProjFrame struct {
	Pos  [2]float64 `json:"pos"`
	Vel  [2]float64 `json:"vel"`
	Side string     `json:"side"`
}

// FrameFromWorld captures the current world state as a broadcast frame.
func FrameFromWorld(w *sim.World) Frame {
	player := w.Player()
	bot := w.Bot()

	frame := Frame{
		Tick:   w.Tick(),
		Player: agentFrame(player),
		Bot:    agentFrame(bot),
		Over:   w.Over(),
	}
	if w.Over() {
		frame.Winner = w.Winner().String()
	}
	for _, p := range w.Projectiles() {
		frame.Projectiles = append(frame.Projectiles, ProjFrame{
			Pos:  [2]float64{p.Pos.X, p.Pos.Y},
			Vel:  [2]float64{p.Vel.X, p.Vel.Y},
			Side: p.Side.String(),
		})
	}
	return frame
}

func agentFrame(a arena.AgentState) AgentFrame {
	return AgentFrame{
		Pos: [2]float64{a.Pos.X, a.Pos.Y},
		Vel: [2]float64{a.Vel.X, a.Vel.Y},
		HP:  a.HP,
	}
}

// spectator is one connected websocket client with a bounded send queue.
type spectator struct {
	conn *websocket.Conn
	send chan []byte
}

// Telemetry accepts spectator connections on /watch and fans out frames.
type Telemetry struct {
	addr   string
	logger log.Log

	mu         sync.Mutex
	spectators map[*spectator]struct{}
	closed     bool

	httpServer *http.Server
	lastDigest uint64
}

func NewTelemetry(addr string, logger log.Log) *Telemetry {
	return &Telemetry{
		addr:       addr,
		logger:     logger.Named("telemetry"),
		spectators: make(map[*spectator]struct{}),
	}
}

// Start begins serving. It returns once the listener goroutine is launched.
func (t *Telemetry) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", t.handleWatch)

	t.httpServer = &http.Server{Addr: t.addr, Handler: mux}

	go func() {
		t.logger.Info("listening", log.String("addr", t.addr))
		if err := t.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("serve failed", log.Err(err))
		}
	}()

	go func() {
		<-ctx.Done()
		_ = t.Stop()
	}()

	return nil
}

// Stop closes all spectators and the listener.
func (t *Telemetry) Stop() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	for s := range t.spectators {
		close(s.send)
		delete(t.spectators, s)
	}
	t.mu.Unlock()

	if t.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.httpServer.Shutdown(shutdownCtx)
}

// Broadcast encodes a frame and queues it to every spectator. Identical
// consecutive frames (by digest) are skipped. Spectators with a full queue
// are dropped.
func (t *Telemetry) Broadcast(frame Frame) error {
	buf := encodeBufs.Get()
	buf.Reset()
	defer encodeBufs.Put(buf)

	if err := json.NewEncoder(buf).Encode(frame); err != nil {
		return fmt.Errorf("encode telemetry frame: %w", err)
	}
	raw := append([]byte(nil), bytes.TrimRight(buf.Bytes(), "\n")...)
	digest := xxhash.Sum64(raw)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrServerClosed
	}
	if digest == t.lastDigest {
		return nil
	}
	t.lastDigest = digest

	for s := range t.spectators {
		select {
		case s.send <- raw:
		default:
			t.logger.Warn("spectator too slow, dropping",
				log.String("remote", s.conn.RemoteAddr().String()))
			close(s.send)
			delete(t.spectators, s)
		}
	}
	return nil
}

// SpectatorCount returns the number of connected spectators.
func (t *Telemetry) SpectatorCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spectators)
}

func (t *Telemetry) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.logger.Warn("upgrade failed", log.Err(err))
		return
	}

	s := &spectator{conn: conn, send: make(chan []byte, 32)}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		_ = conn.Close()
		return
	}
	t.spectators[s] = struct{}{}
	count := len(t.spectators)
	t.mu.Unlock()

	t.logger.Info("spectator connected",
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("spectators", count))

	go t.writeLoop(s)
	go t.readLoop(s)
}

func (t *Telemetry) writeLoop(s *spectator) {
	defer func() { _ = s.conn.Close() }()
	for raw := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			t.remove(s)
			return
		}
	}
}

// readLoop discards inbound messages; it exists to notice disconnects.
func (t *Telemetry) readLoop(s *spectator) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			t.remove(s)
			return
		}
	}
}

func (t *Telemetry) remove(s *spectator) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.spectators[s]; ok {
		delete(t.spectators, s)
		close(s.send)
	}
}

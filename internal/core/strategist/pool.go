package strategist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vectorclash/vectorclash/internal/core/intent"
	"github.com/vectorclash/vectorclash/internal/core/observability/log"
	"github.com/vectorclash/vectorclash/internal/core/snapshot"
)

// Config tunes the decision pool.
type Config struct {
	// Instances bounds the number of overlapping in-flight requests.
	Instances int `yaml:"instances"`
	// FireInterval is the cadence at which new requests are launched.
	FireInterval time.Duration `yaml:"fire_interval"`
	// RequestTimeout caps a single decision round trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// StyleDepth is how many recent thinking lines are retained.
	StyleDepth int `yaml:"style_depth"`
}

// DefaultPoolConfig is the standard cadence: four overlapping instances
// fired every 250ms.
func DefaultPoolConfig() Config {
	return Config{
		Instances:      4,
		FireInterval:   250 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
		StyleDepth:     10,
	}
}

// Source builds the current world payload. It is called at fire time so
// every request carries the freshest state, with the most recent style
// observation injected.
type Source func(style string) snapshot.Payload

// Pool periodically fires decision requests at the strategist, keeping at
// most Config.Instances in flight, and publishes every successful decision
// into the shared intent slot. Decisions land in publish order; the slot
// keeps only the freshest. Cancelling the pool's context drains in-flight
// requests and leaves the slot intact for the consumer.
type Pool struct {
	cfg     Config
	decider Decider
	slot    *intent.Slot
	source  Source
	logger  log.Log

	mu     sync.Mutex
	styles []string

	lastDigest atomic.Uint64
	published  atomic.Uint64
}

func NewPool(cfg Config, decider Decider, slot *intent.Slot, source Source, logger log.Log) *Pool {
	if cfg.Instances <= 0 {
		cfg.Instances = DefaultPoolConfig().Instances
	}
	if cfg.FireInterval <= 0 {
		cfg.FireInterval = DefaultPoolConfig().FireInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultPoolConfig().RequestTimeout
	}
	if cfg.StyleDepth <= 0 {
		cfg.StyleDepth = DefaultPoolConfig().StyleDepth
	}
	return &Pool{
		cfg:     cfg,
		decider: decider,
		slot:    slot,
		source:  source,
		logger:  logger.Named("strategist"),
	}
}

// Run fires requests until ctx is cancelled, then waits for in-flight
// requests to drain. It returns nil on clean shutdown.
func (p *Pool) Run(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(p.cfg.Instances)

	ticker := time.NewTicker(p.cfg.FireInterval)
	defer ticker.Stop()

	p.logger.Info("pool started",
		log.Int("instances", p.cfg.Instances),
		log.Duration("fire_interval", p.cfg.FireInterval))

	tick := 0
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			p.logger.Info("pool drained",
				log.Int("ticks_fired", tick),
				log.Uint64("decisions_published", p.published.Load()))
			return nil
		case <-ticker.C:
			tick++
			n := tick
			if !g.TryGo(func() error {
				p.fire(ctx, n)
				return nil
			}) {
				p.logger.Debug("all instances busy, skipping tick", log.Int("tick", n))
			}
		}
	}
}

// Published reports the number of decisions published so far.
func (p *Pool) Published() uint64 {
	return p.published.Load()
}

func (p *Pool) fire(ctx context.Context, tick int) {
	id := uuid.NewString()
	payload := p.source(p.latestStyle())

	raw, digest, err := snapshot.Encode(payload)
	if err != nil {
		p.logger.Error("snapshot encode failed", log.Int("tick", tick), log.Err(err))
		return
	}
	if digest == p.lastDigest.Swap(digest) {
		p.logger.Debug("world unchanged since previous request",
			log.Int("tick", tick), log.Uint64("digest", digest))
	}

	rctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	decision, thinking, err := p.decider.Decide(rctx, raw)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.logger.Debug("request cancelled", log.Int("tick", tick), log.String("request_id", id))
		} else {
			p.logger.Warn("decision failed",
				log.Int("tick", tick),
				log.String("request_id", id),
				log.Duration("elapsed", elapsed),
				log.Err(err))
		}
		return
	}

	if thinking != "" {
		p.pushStyle(thinking)
	}

	p.slot.Publish(decision)
	p.published.Add(1)
	p.logger.Debug("decision published",
		log.Int("tick", tick),
		log.String("request_id", id),
		log.Duration("elapsed", elapsed),
		log.Float64("dx", decision.DX),
		log.Float64("dy", decision.DY),
		log.Bool("fire", decision.Fire))
}

func (p *Pool) pushStyle(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styles = append(p.styles, line)
	if len(p.styles) > p.cfg.StyleDepth {
		p.styles = p.styles[len(p.styles)-p.cfg.StyleDepth:]
	}
}

func (p *Pool) latestStyle() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.styles) == 0 {
		return ""
	}
	return p.styles[len(p.styles)-1]
}

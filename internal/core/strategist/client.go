package strategist

import (
	"context"
	"errors"
	"fmt"

	"github.com/vectorclash/vectorclash/internal/core/intent"
)

// ErrUnparsableDecision is returned when a response contained no
// recoverable {dx, dy, shoot} command.
var ErrUnparsableDecision = errors.New("no decision found in strategist response")

// Decider produces one strategic decision from an encoded world snapshot.
// The returned thinking string is the strategist's own commentary, fed back
// into later snapshots as style observations.
type Decider interface {
	Decide(ctx context.Context, payload []byte) (intent.Decision, string, error)
}

// RemoteDecider asks a remote strategist over a Transport and parses its
// textual reply.
type RemoteDecider struct {
	transport Transport
}

func NewRemoteDecider(t Transport) *RemoteDecider {
	return &RemoteDecider{transport: t}
}

func (r *RemoteDecider) Decide(ctx context.Context, payload []byte) (intent.Decision, string, error) {
	resp, err := r.transport.Request(ctx, payload)
	if err != nil {
		return intent.Decision{}, "", fmt.Errorf("strategist request: %w", err)
	}

	d, thinking, ok := ParseDecision(string(resp))
	if !ok {
		return intent.Decision{}, thinking, ErrUnparsableDecision
	}
	return d, thinking, nil
}

func (r *RemoteDecider) Close() error {
	return r.transport.Close()
}

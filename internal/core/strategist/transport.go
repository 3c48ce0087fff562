// Package strategist runs the slow, high-latency strategic producer: a
// bounded set of overlapping decision requests, each carrying a world
// snapshot, all publishing into the single shared intent slot. The
// simulation never waits on it; multiple decisions may be overwritten
// before ever being read.
package strategist

import (
	"context"
	"errors"
)

// Transport errors.
var (
	ErrTransportClosed = errors.New("strategist transport is closed")
	ErrEmptyResponse   = errors.New("strategist returned an empty response")
)

// Transport carries one encoded snapshot to the remote strategist and
// returns its raw textual response. Implementations must be safe for
// concurrent use; overlapping in-flight requests are the normal case.
type Transport interface {
	Request(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

package strategist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSTransport speaks request/response text frames over a single persistent
// websocket connection. The connection admits one frame exchange at a time,
// so overlapping requests are serialised on the wire; use the QUIC transport
// when true request overlap matters.
type WSTransport struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// DialWS connects to a websocket strategist endpoint, e.g.
// ws://host:port/decide.
func DialWS(ctx context.Context, url string) (*WSTransport, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial strategist websocket %s: %w", url, err)
	}
	return &WSTransport{conn: conn}, nil
}

func (t *WSTransport) Request(ctx context.Context, payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrTransportClosed
	}

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set write deadline: %w", err)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	_, resp, err := t.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read decision: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

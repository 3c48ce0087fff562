package strategist

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

// QUICTransport opens one bidirectional stream per request over a shared
// QUIC connection, so overlapping in-flight requests never block each other.
type QUICTransport struct {
	conn *quic.Conn
}

// quicTLSConfig returns the client TLS setup for the strategist link.
// The strategist endpoint uses a self-signed certificate.
func quicTLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{"vectorclash-strategist"},
		MinVersion:         tls.VersionTLS13,
	}
}

// DialQUIC connects to a QUIC strategist endpoint ("host:port").
func DialQUIC(ctx context.Context, addr string) (*QUICTransport, error) {
	conn, err := quic.DialAddr(ctx, addr, quicTLSConfig(), &quic.Config{
		MaxIdleTimeout:  30 * time.Second,
		KeepAlivePeriod: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("dial strategist quic %s: %w", addr, err)
	}
	return &QUICTransport{conn: conn}, nil
}

func (t *QUICTransport) Request(ctx context.Context, payload []byte) ([]byte, error) {
	stream, err := t.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	if d, ok := ctx.Deadline(); ok {
		if err = stream.SetDeadline(d); err != nil {
			return nil, fmt.Errorf("set stream deadline: %w", err)
		}
	}

	if _, err = stream.Write(payload); err != nil {
		stream.CancelRead(0)
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	// Half-close signals end of request; the peer responds and closes.
	if err = stream.Close(); err != nil {
		return nil, fmt.Errorf("close send side: %w", err)
	}

	resp, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read decision: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

func (t *QUICTransport) Close() error {
	return t.conn.CloseWithError(0, "session over")
}

package utr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/utrkit/go-utr/logger"
)

// Sentinel errors for the reader protocol.
var (
	// ErrConnClosed indicates the connection is closed or was never opened.
	ErrConnClosed = errors.New("utr: connection closed")

	// ErrNoResponse indicates no control frame arrived within the
	// command timeout.
	ErrNoResponse = errors.New("utr: no response before timeout")

	// ErrUnexpectedResponse indicates the reader answered with a frame
	// that is neither ACK nor NACK for the command sent.
	ErrUnexpectedResponse = errors.New("utr: unexpected response")

	// ErrShortResponse indicates the response frame is too short to
	// carry the field being decoded.
	ErrShortResponse = errors.New("utr: response frame too short")
)

// Conn is a TCP transport to a LAN-model reader. It implements
// [Transport].
//
// The reader runs as a TCP server; the host connects as a client. Conn
// holds exactly one TCP connection and has no automatic reconnect: a
// transport failure makes the session unusable and reconnect policy
// belongs to the caller.
type Conn struct {
	cfg    *ConnConfig
	logger logger.Logger

	connMutex sync.RWMutex
	tcpConn   net.Conn
}

var _ Transport = (*Conn)(nil)

// NewConn creates a Conn with the given configuration. Call Open to
// establish the TCP connection.
func NewConn(cfg *ConnConfig) (*Conn, error) {
	if cfg == nil {
		return nil, errors.New("utr: connection config is nil")
	}

	return &Conn{cfg: cfg, logger: cfg.logger}, nil
}

// Open dials the reader. The dial is bounded by the configured connect
// timeout and by ctx.
func (c *Conn) Open(ctx context.Context) error {
	address := net.JoinHostPort(c.cfg.host, strconv.Itoa(c.cfg.port))
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.connectTimeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		c.logger.Debug("utr: dial failed", "address", address, "error", err)

		return fmt.Errorf("utr: connect %s: %w", address, err)
	}

	c.connMutex.Lock()
	c.tcpConn = conn
	c.connMutex.Unlock()

	c.logger.Debug("utr: connected",
		"localAddr", conn.LocalAddr(),
		"remoteAddr", conn.RemoteAddr())

	return nil
}

// Close closes the TCP connection. Subsequent Send/Receive calls return
// ErrConnClosed.
func (c *Conn) Close() error {
	c.connMutex.Lock()
	conn := c.tcpConn
	c.tcpConn = nil
	c.connMutex.Unlock()

	if conn == nil {
		return nil
	}

	remote := conn.RemoteAddr().String()

	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Error("utr: failed to close TCP connection", "error", err)

		return err
	}

	c.logger.Debug("utr: connection closed", "remoteAddr", remote)

	return nil
}

func (c *Conn) getTCPConn() net.Conn {
	c.connMutex.RLock()
	defer c.connMutex.RUnlock()

	return c.tcpConn
}

// Send writes the complete command byte-string, bounded by the send
// timeout.
func (c *Conn) Send(data []byte) error {
	conn := c.getTCPConn()
	if conn == nil {
		return ErrConnClosed
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.sendTimeout)); err != nil {
		return fmt.Errorf("utr: set write deadline: %w", err)
	}

	for written := 0; written < len(data); {
		n, err := conn.Write(data[written:])
		written += n

		if err != nil {
			return fmt.Errorf("utr: write: %w", err)
		}
	}

	return nil
}

// Receive reads up to len(p) bytes with the poll timeout as read
// deadline. A deadline expiry is reported as (0, nil): no data yet,
// keep waiting. Any other error is a hard transport failure.
func (c *Conn) Receive(p []byte) (int, error) {
	conn := c.getTCPConn()
	if conn == nil {
		return 0, ErrConnClosed
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.cfg.pollTimeout)); err != nil {
		return 0, fmt.Errorf("utr: set read deadline: %w", err)
	}

	n, err := conn.Read(p)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, nil
		}

		if errors.Is(err, net.ErrClosed) {
			return n, ErrConnClosed
		}

		return n, fmt.Errorf("utr: read: %w", err)
	}

	return n, nil
}

package utr

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/utrkit/go-utr/logger"
)

// Default timeout values for a TCP reader connection.
const (
	// DefaultPort is the factory TCP port of LAN-model readers.
	DefaultPort = 4001

	DefaultConnectTimeout = 3 * time.Second
	DefaultSendTimeout    = 3 * time.Second

	// DefaultPollTimeout is the per-Receive read deadline. It trades off
	// CPU usage against how promptly Communicate notices its budget.
	DefaultPollTimeout = 50 * time.Millisecond
)

// Poll timeout range limits.
const (
	MinPollTimeout = time.Millisecond
	MaxPollTimeout = time.Second
)

// ConnConfig holds all configuration for a TCP connection to a
// LAN-model reader.
type ConnConfig struct {
	host string
	port int

	proto Protocol

	connectTimeout time.Duration
	sendTimeout    time.Duration
	pollTimeout    time.Duration

	logger logger.Logger
}

// NewConnConfig creates a TCP connection configuration for the reader
// at host:port. opts are functional options applied in order; see the
// With* functions.
func NewConnConfig(host string, port int, opts ...ConnOption) (*ConnConfig, error) {
	cfg := &ConnConfig{
		proto:          DefaultProtocol(),
		connectTimeout: DefaultConnectTimeout,
		sendTimeout:    DefaultSendTimeout,
		pollTimeout:    DefaultPollTimeout,
		logger:         logger.GetLogger(),
	}

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}
	if err := cfg.setPort(port); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnConfig) setHost(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		cfg.host = host
		return nil
	}

	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if _, err := net.LookupHost(host); err == nil {
		cfg.host = host
		return nil
	}

	return fmt.Errorf("utr: invalid host %q", host)
}

func (cfg *ConnConfig) setPort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("utr: port %d out of range [0, 65535]", port)
	}
	cfg.port = port

	return nil
}

// --- Getters ---

// Host returns the configured host address.
func (cfg *ConnConfig) Host() string { return cfg.host }

// Port returns the configured TCP port.
func (cfg *ConnConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ConnConfig) Addr() string { return fmt.Sprintf("%s:%d", cfg.host, cfg.port) }

// Protocol returns the configured protocol constants.
func (cfg *ConnConfig) Protocol() Protocol { return cfg.proto }

// ConnectTimeout returns the TCP dial timeout.
func (cfg *ConnConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// SendTimeout returns the TCP write timeout.
func (cfg *ConnConfig) SendTimeout() time.Duration { return cfg.sendTimeout }

// PollTimeout returns the per-Receive read deadline.
func (cfg *ConnConfig) PollTimeout() time.Duration { return cfg.pollTimeout }

// GetLogger returns the configured logger.
func (cfg *ConnConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnConfig.
type ConnOption interface {
	apply(*ConnConfig) error
}

type connOptFunc func(*ConnConfig) error

func (f connOptFunc) apply(cfg *ConnConfig) error { return f(cfg) }

// WithProtocol sets the protocol constants (e.g. a non-default reader
// address byte).
func WithProtocol(p Protocol) ConnOption {
	return connOptFunc(func(cfg *ConnConfig) error {
		cfg.proto = p
		return nil
	})
}

// WithConnectTimeout sets the TCP dial timeout.
func WithConnectTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnConfig) error {
		if d <= 0 {
			return errors.New("utr: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithSendTimeout sets the TCP write timeout for sending commands.
func WithSendTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnConfig) error {
		if d <= 0 {
			return errors.New("utr: send timeout must be positive")
		}
		cfg.sendTimeout = d

		return nil
	})
}

// WithPollTimeout sets the per-Receive read deadline.
func WithPollTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnConfig) error {
		if d < MinPollTimeout || d > MaxPollTimeout {
			return fmt.Errorf("utr: poll timeout %v out of range [%v, %v]", d, MinPollTimeout, MaxPollTimeout)
		}
		cfg.pollTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnConfig) error {
		if l == nil {
			return errors.New("utr: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

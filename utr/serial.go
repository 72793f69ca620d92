package utr

import (
	"errors"
	"fmt"

	"github.com/goburrow/serial"
)

// SerialConn drives a reader attached over a serial line. It implements
// [Transport]: the framing is identical to the LAN model, only the byte
// stream underneath differs.
type SerialConn struct {
	port serial.Port
}

var _ Transport = (*SerialConn)(nil)

// OpenSerial opens the serial port described by cfg.
//
// cfg.Timeout is used as the Receive poll window; when unset it
// defaults to DefaultPollTimeout.
func OpenSerial(cfg serial.Config) (*SerialConn, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollTimeout
	}

	port, err := serial.Open(&cfg)
	if err != nil {
		return nil, fmt.Errorf("utr: open serial port %s: %w", cfg.Address, err)
	}

	return &SerialConn{port: port}, nil
}

// Close closes the serial port.
func (s *SerialConn) Close() error {
	return s.port.Close()
}

// Send writes the complete command byte-string.
func (s *SerialConn) Send(data []byte) error {
	for written := 0; written < len(data); {
		n, err := s.port.Write(data[written:])
		written += n

		if err != nil {
			return fmt.Errorf("utr: serial write: %w", err)
		}
	}

	return nil
}

// Receive reads up to len(p) bytes within the port's configured
// timeout. A timeout is reported as (0, nil): no data yet, keep waiting.
func (s *SerialConn) Receive(p []byte) (int, error) {
	n, err := s.port.Read(p)
	if err != nil {
		if errors.Is(err, serial.ErrTimeout) {
			return n, nil
		}

		return n, fmt.Errorf("utr: serial read: %w", err)
	}

	return n, nil
}

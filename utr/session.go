package utr

import (
	"context"
	"fmt"
	"time"

	"github.com/utrkit/go-utr/internal/pool"
	"github.com/utrkit/go-utr/logger"
)

// DefaultCommandTimeout is the default response budget for one
// command/response cycle.
const DefaultCommandTimeout = time.Second

// Session drives the request/response protocol against one reader
// through a Transport.
//
// The protocol is strictly request-then-response: a Session supports at
// most one in-flight Communicate call at a time, and concurrent calls
// on the same transport must be serialized by the caller. There is no
// retry inside the session; retry policy belongs to the orchestrating
// caller.
type Session struct {
	transport Transport
	proto     Protocol
	timeout   time.Duration
	logger    logger.Logger

	metrics SessionMetrics
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithCommandTimeout sets the response budget for one command cycle.
func WithCommandTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSessionProtocol sets the protocol constants for the session.
func WithSessionProtocol(p Protocol) SessionOption {
	return func(s *Session) {
		s.proto = p
	}
}

// WithSessionLogger sets the logger for the session.
func WithSessionLogger(l logger.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a Session on top of transport.
func NewSession(transport Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: transport,
		proto:     DefaultProtocol(),
		timeout:   DefaultCommandTimeout,
		logger:    logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Protocol returns the protocol constants the session was built with.
func (s *Session) Protocol() Protocol {
	return s.proto
}

// Metrics returns the metrics associated with the session.
func (s *Session) Metrics() *SessionMetrics {
	return &s.metrics
}

// Communicate sends one command byte-string exactly once and collects
// validated response frames until a control frame (ACK or NACK)
// arrives or the command timeout expires.
//
// The returned bytes are the validated frames of the cycle concatenated
// in arrival order; on timeout they are whatever was accumulated,
// possibly empty, with a nil error. Only a transport failure or context
// cancellation yields a non-nil error.
func (s *Session) Communicate(ctx context.Context, command []byte) ([]byte, error) {
	if err := s.transport.Send(command); err != nil {
		return nil, fmt.Errorf("utr: send command: %w", err)
	}
	s.metrics.incCommandSendCount()

	sync := NewSynchronizer(s.proto)
	defer s.metrics.observeSync(sync)

	budget := pool.GetTimer(s.timeout)
	defer pool.PutTimer(budget)

	chunk := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return sync.Response(), ctx.Err()

		case <-budget.C:
			s.metrics.incTimeoutCount()
			s.logger.Debug("utr: response timeout, returning partial data",
				"frames", len(sync.Frames()))

			return sync.Response(), nil

		default:
		}

		n, err := s.transport.Receive(chunk)
		if err != nil {
			return sync.Response(), fmt.Errorf("utr: receive: %w", err)
		}

		if n == 0 {
			continue // no data yet, keep waiting
		}

		sync.Feed(chunk[:n])
		sync.Pump()

		if sync.Done() {
			return sync.Response(), nil
		}
	}
}

// execute runs one command cycle and classifies the leading response
// frame, returning the full response for further field decoding.
//
// A NACK answer is decoded into a *NACKError return; an empty cycle
// maps to ErrNoResponse and anything that is not a control frame to
// ErrUnexpectedResponse.
func (s *Session) execute(ctx context.Context, command []byte) ([]byte, error) {
	response, err := s.Communicate(ctx, command)
	if err != nil {
		return nil, err
	}

	frame, _, ok := s.proto.ExtractFrame(response, 0)
	if !ok || !VerifySum(frame) {
		return response, ErrNoResponse
	}

	switch cmd := Command(frame); {
	case cmd == s.proto.ACK:
		return response, nil

	case cmd == s.proto.NACK:
		s.metrics.incNACKRecvCount()

		if nack := ParseNACK(frame); nack != nil {
			return response, nack
		}

		return response, ErrUnexpectedResponse

	default:
		return response, fmt.Errorf("%w: command 0x%02X", ErrUnexpectedResponse, cmd)
	}
}

// CheckROMVersion queries the reader firmware version and verifies the
// response carries the ROM detail code. It doubles as a link liveness
// check after connecting.
func (s *Session) CheckROMVersion(ctx context.Context) error {
	response, err := s.execute(ctx, CmdROMVersionCheck)
	if err != nil {
		return err
	}

	frame, _, _ := s.proto.ExtractFrame(response, 0)
	if detail, ok := Detail(frame); !ok || detail != s.proto.DetailROM {
		return fmt.Errorf("%w: ROM version detail mismatch", ErrUnexpectedResponse)
	}

	return nil
}

// SetCommandMode switches the reader into command mode.
func (s *Session) SetCommandMode(ctx context.Context) error {
	_, err := s.execute(ctx, CmdCommandModeSet)

	return err
}

// ReadOutputPower reads the configured transmit output power in dBm.
func (s *Session) ReadOutputPower(ctx context.Context) (float64, error) {
	response, err := s.execute(ctx, CmdReadOutputPower)
	if err != nil {
		return 0, err
	}

	frame, _, _ := s.proto.ExtractFrame(response, 0)
	if len(frame) <= 8 {
		return 0, fmt.Errorf("%w: output power", ErrShortResponse)
	}

	// The power level is the sum of the two field bytes, in tenths of a dBm.
	return float64(uint16(frame[7])+uint16(frame[8])) / 10, nil
}

// ReadFrequencyChannel reads the configured frequency channel number.
// Resolve it to MHz with FrequencyMHz.
func (s *Session) ReadFrequencyChannel(ctx context.Context) (int, error) {
	response, err := s.execute(ctx, CmdReadFreqChannel)
	if err != nil {
		return 0, err
	}

	frame, _, _ := s.proto.ExtractFrame(response, 0)
	if len(frame) <= 7 {
		return 0, fmt.Errorf("%w: frequency channel", ErrShortResponse)
	}

	return int(frame[7]), nil
}

// GetInventoryParams reads the current inventory parameters from the
// reader. The parameter payload is device configuration data; only the
// ACK/NACK outcome is interpreted.
func (s *Session) GetInventoryParams(ctx context.Context) error {
	_, err := s.execute(ctx, CmdGetInventoryParams)

	return err
}

// SetInventoryParams writes the sample inventory parameters.
func (s *Session) SetInventoryParams(ctx context.Context) error {
	_, err := s.execute(ctx, CmdSetInventoryParams)

	return err
}

// WriteTag writes the sample data word to a tag in field.
func (s *Session) WriteTag(ctx context.Context) error {
	_, err := s.execute(ctx, CmdWriteTag)

	return err
}

// Buzzer sounds the reader buzzer. response selects whether the reader
// answers with a control frame (BuzzerReply/BuzzerNoReply), sound the
// pattern (SoundLong, SoundShort3, ...).
func (s *Session) Buzzer(ctx context.Context, response, sound byte) error {
	command := s.proto.BuildFrame(s.proto.Buzzer, []byte{response, sound})

	if response == BuzzerNoReply {
		// The reader stays silent; nothing to collect.
		if err := s.transport.Send(command); err != nil {
			return fmt.Errorf("utr: send command: %w", err)
		}
		s.metrics.incCommandSendCount()

		return nil
	}

	_, err := s.execute(ctx, command)

	return err
}

// Inventory runs one inventory round: N tag data frames followed by a
// summary ACK, collected in a single cycle and decoded into typed
// results.
//
// A device-reported NACK ends up in the result's Nack field, not in the
// error return. A count mismatch between the reader's summary and the
// decoded tags is logged as a warning and left to the caller via
// [InventoryResult.CountMismatch].
func (s *Session) Inventory(ctx context.Context) (*InventoryResult, error) {
	response, err := s.Communicate(ctx, CmdInventory)
	if err != nil {
		return nil, err
	}

	result := DecodeInventory(s.proto, response)

	if result.Nack != nil {
		s.metrics.incNACKRecvCount()
	}

	if result.CountMismatch() {
		expected, _ := result.ExpectedCount()
		s.logger.Warn("utr: inventory count mismatch",
			"expected", expected,
			"decoded", len(result.Tags))
	}

	return result, nil
}

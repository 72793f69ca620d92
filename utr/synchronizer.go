package utr

import "github.com/utrkit/go-utr/internal/util"

// syncState identifies where the receive state machine stands relative
// to the front of its buffer.
type syncState int

const (
	// awaitingSTX: the buffer is empty or its first byte is not STX.
	awaitingSTX syncState = iota
	// awaitingHeader: an STX candidate leads the buffer but the header
	// is not complete yet.
	awaitingHeader
	// awaitingBody: the header is complete but the declared frame length
	// has not fully arrived.
	awaitingBody
	// frameReady: the declared frame length is fully buffered and the
	// candidate can be validated.
	frameReady
)

// Synchronizer reassembles validated frames from an untrusted,
// arbitrarily fragmented byte stream.
//
// Bytes enter through Feed in whatever chunk sizes the transport
// delivers (including single bytes); Pump advances the state machine as
// far as the buffered data allows. The output is identical regardless
// of how the input was chunked.
//
// Corruption recovery is deliberately conservative: on any marker or
// checksum mismatch exactly one byte is dropped from the front and
// scanning restarts, so a false-positive STX inside garbage data cannot
// cause over-skipping past a real frame start.
//
// The Synchronizer owns its buffer for the duration of one
// command/response cycle and is not safe for concurrent use.
type Synchronizer struct {
	proto  Protocol
	buf    []byte
	frames [][]byte
	done   bool

	resyncDrops  uint64
	checksumErrs uint64
}

// NewSynchronizer creates a Synchronizer for the given protocol constants.
func NewSynchronizer(proto Protocol) *Synchronizer {
	return &Synchronizer{proto: proto}
}

// Feed appends newly received bytes to the buffer. It performs no
// parsing; call Pump to advance the state machine.
func (s *Synchronizer) Feed(data []byte) {
	s.buf = append(s.buf, data...)
}

// Pump advances the state machine until it either needs more input or
// has terminated on a control frame.
func (s *Synchronizer) Pump() {
	for !s.done {
		switch state, total := s.classify(); state {
		case awaitingSTX:
			if len(s.buf) == 0 {
				return
			}
			// Resynchronization primitive: slide the window forward one
			// byte until an STX candidate leads the buffer.
			s.dropByte()

		case awaitingHeader, awaitingBody:
			return

		case frameReady:
			s.acceptFrame(total)
		}
	}
}

// classify inspects the front of the buffer and reports the machine
// state, plus the declared total frame length once the header is known.
func (s *Synchronizer) classify() (syncState, int) {
	if len(s.buf) == 0 || s.buf[0] != s.proto.STX {
		return awaitingSTX, 0
	}

	if len(s.buf) < headerLen {
		return awaitingHeader, 0
	}

	total := int(s.buf[lenOffset]) + minFrameLen
	if len(s.buf) < total {
		return awaitingBody, total
	}

	return frameReady, total
}

// acceptFrame validates the complete candidate at the front of the
// buffer: the CR and ETX markers at their declared positions first,
// then the checksum. Either failure drops exactly one byte and resumes
// scanning; a pass appends the frame and consumes it.
//
// A validated ACK or NACK terminates the cycle: the control frame is
// always the last frame of one command/response exchange, so the rest
// of the buffer is discarded.
func (s *Synchronizer) acceptFrame(total int) {
	if s.buf[total-1] != s.proto.CR || s.buf[total-footerLen] != s.proto.ETX {
		s.dropByte()

		return
	}

	if !VerifySum(s.buf[:total]) {
		s.checksumErrs++
		s.dropByte()

		return
	}

	frame := util.CloneSlice(s.buf[:total], 0)
	s.frames = append(s.frames, frame)

	if s.proto.IsControl(Command(frame)) {
		s.done = true
		s.buf = nil

		return
	}

	s.buf = s.buf[total:]
}

func (s *Synchronizer) dropByte() {
	s.buf = s.buf[1:]
	s.resyncDrops++
}

// Done reports whether a control frame (ACK or NACK) has been seen.
func (s *Synchronizer) Done() bool {
	return s.done
}

// Frames returns the validated frames accumulated so far, in arrival order.
func (s *Synchronizer) Frames() [][]byte {
	return s.frames
}

// Response returns the accumulated validated frames concatenated in
// order: the byte response of one command cycle, ready for DecodeInventory.
func (s *Synchronizer) Response() []byte {
	size := 0
	for _, f := range s.frames {
		size += len(f)
	}

	out := make([]byte, 0, size)
	for _, f := range s.frames {
		out = append(out, f...)
	}

	return out
}

// ResyncDrops returns the number of bytes discarded while hunting for a
// frame start.
func (s *Synchronizer) ResyncDrops() uint64 {
	return s.resyncDrops
}

// ChecksumFailures returns the number of frame candidates rejected by
// the checksum gate.
func (s *Synchronizer) ChecksumFailures() uint64 {
	return s.checksumErrs
}

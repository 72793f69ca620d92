package utr

import (
	"errors"
	"testing"
	"time"
)

// testProto returns the factory protocol values used by most tests.
func testProto() Protocol {
	return DefaultProtocol()
}

// inventoryTagFrame builds a valid inventory data frame carrying one
// PC+UII and the given raw RSSI field bytes.
func inventoryTagFrame(proto Protocol, rssiHi, rssiLo byte, uii []byte) []byte {
	payload := append([]byte{proto.DetailInventory, rssiHi, rssiLo, 0x00, byte(len(uii))}, uii...)

	return proto.BuildFrame(proto.Inventory, payload)
}

// summaryFrame builds the inventory summary ACK declaring count tags read.
func summaryFrame(proto Protocol, count uint16) []byte {
	payload := []byte{proto.DetailInventory, 0x00, byte(count), byte(count >> 8)}

	return proto.BuildFrame(proto.ACK, payload)
}

// ackFrame builds a plain ACK frame with the given payload.
func ackFrame(proto Protocol, payload ...byte) []byte {
	return proto.BuildFrame(proto.ACK, payload)
}

// nackFrame builds a NACK frame carrying the given device error code.
func nackFrame(proto Protocol, code byte) []byte {
	return proto.BuildFrame(proto.NACK, []byte{proto.DetailInventory, code})
}

// corruptSum returns a copy of frame with its SUM byte flipped.
func corruptSum(frame []byte) []byte {
	out := make([]byte, len(frame))
	copy(out, frame)
	out[len(out)-2] ^= 0xFF

	return out
}

// concat joins byte slices into one stream.
func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// scriptTransport is an in-memory Transport that replays scripted
// response chunks. Once the script is exhausted, Receive reports
// recvErr when set, otherwise "no data yet".
type scriptTransport struct {
	sent    [][]byte
	chunks  [][]byte
	pos     int
	sendErr error
	recvErr error
}

var _ Transport = (*scriptTransport)(nil)

func (t *scriptTransport) Send(data []byte) error {
	if t.sendErr != nil {
		return t.sendErr
	}

	t.sent = append(t.sent, append([]byte(nil), data...))

	return nil
}

func (t *scriptTransport) Receive(p []byte) (int, error) {
	if t.pos >= len(t.chunks) {
		if t.recvErr != nil {
			return 0, t.recvErr
		}

		return 0, nil
	}

	chunk := t.chunks[t.pos]
	n := copy(p, chunk)
	if n < len(chunk) {
		t.chunks[t.pos] = chunk[n:]
	} else {
		t.pos++
	}

	return n, nil
}

// byteChunks splits data into single-byte chunks, the worst-case
// fragmentation a transport can deliver.
func byteChunks(data []byte) [][]byte {
	chunks := make([][]byte, 0, len(data))
	for _, b := range data {
		chunks = append(chunks, []byte{b})
	}

	return chunks
}

// newTestSession creates a Session over tr with a short command timeout.
func newTestSession(t *testing.T, tr Transport) *Session {
	t.Helper()

	return NewSession(tr, WithCommandTimeout(50*time.Millisecond))
}

var errTransportDown = errors.New("transport down")

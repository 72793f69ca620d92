package utr

// Structural frame dimensions. These are properties of the framing
// itself, independent of the configurable marker values in Protocol.
const (
	// headerLen covers STX, address, command, and length (1 byte each).
	headerLen = 4
	// footerLen covers ETX, SUM, and CR (1 byte each).
	footerLen = 3
	// minFrameLen is the size of a frame with an empty payload.
	minFrameLen = headerLen + footerLen

	// cmdOffset is the position of the command code within a frame.
	cmdOffset = 2
	// lenOffset is the position of the payload length within a frame.
	lenOffset = 3
	// detailOffset is the position of the detail code (the first payload
	// byte) within a frame.
	detailOffset = 4
)

// Protocol holds the wire constants for one reader dialect: the framing
// markers, the reader address, and the command and detail codes the
// engine needs to recognize. It is passed by value into the engine at
// construction so there is no hidden global protocol state and tests can
// parameterize it (e.g. a non-zero address byte).
type Protocol struct {
	STX  byte // frame start marker
	ETX  byte // end-of-data marker
	CR   byte // frame terminator
	Addr byte // reader address (RW ID); changes with device settings

	ACK       byte // success control frame command code
	NACK      byte // device-reported fault control frame command code
	Inventory byte // inventory data frame command code
	Buzzer    byte // buzzer control command code

	DetailROM       byte // detail code of a ROM version response
	DetailInventory byte // detail code of an inventory summary ACK
}

// DefaultProtocol returns the UTR factory protocol values.
func DefaultProtocol() Protocol {
	return Protocol{
		STX:             0x02,
		ETX:             0x03,
		CR:              0x0D,
		Addr:            0x00,
		ACK:             0x30,
		NACK:            0x31,
		Inventory:       0x6C,
		Buzzer:          0x42,
		DetailROM:       0x90,
		DetailInventory: 0x10,
	}
}

// IsControl reports whether cmd is a control frame command code
// (ACK or NACK). A control frame is always the last frame of one
// command/response cycle.
func (p Protocol) IsControl(cmd byte) bool {
	return cmd == p.ACK || cmd == p.NACK
}

// ExtractFrame determines whether a complete frame candidate starts at
// offset in buf and, if so, returns the frame slice and the offset just
// past it.
//
// The caller is responsible for pointing offset at an STX candidate.
// ExtractFrame checks only that the declared length fits in buf and that
// the declared terminator position holds CR; the checksum is a separate
// gate (VerifySum) applied by the caller, because a length mismatch and
// a checksum mismatch warrant different recovery actions.
//
// When ok is false the buffer holds no complete frame at offset yet and
// nothing is consumed.
func (p Protocol) ExtractFrame(buf []byte, offset int) (frame []byte, next int, ok bool) {
	if len(buf)-offset < minFrameLen {
		return nil, offset, false
	}

	total := int(buf[offset+lenOffset]) + minFrameLen
	if len(buf)-offset < total {
		return nil, offset, false
	}

	if buf[offset+total-1] != p.CR {
		return nil, offset, false
	}

	return buf[offset : offset+total], offset + total, true
}

// BuildFrame assembles a complete command frame for the given command
// code and payload: header, payload, ETX, checksum, CR.
func (p Protocol) BuildFrame(cmd byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+minFrameLen)
	frame = append(frame, p.STX, p.Addr, cmd, byte(len(payload)))
	frame = append(frame, payload...)
	frame = append(frame, p.ETX)
	frame = append(frame, Checksum(frame), p.CR)

	return frame
}

// Checksum returns the additive checksum of data: the sum of all byte
// values truncated to the low 8 bits. Checksum of an empty slice is 0.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return sum
}

// VerifySum reports whether frame carries a correct SUM byte.
//
// It fails closed: a slice too short to hold a header and footer is
// never valid. Otherwise the byte at len-2 is compared against the
// checksum of everything before it, which covers STX through ETX
// inclusive and excludes the SUM and CR bytes themselves.
func VerifySum(frame []byte) bool {
	if len(frame) < minFrameLen {
		return false
	}

	return frame[len(frame)-2] == Checksum(frame[:len(frame)-2])
}

// Command returns the command code of frame. The frame must be at least
// minFrameLen bytes, which every validated frame is.
func Command(frame []byte) byte {
	return frame[cmdOffset]
}

// Detail returns the detail code of frame, the secondary
// command-disambiguation byte at the first payload position. ok is
// false when the frame carries no payload.
func Detail(frame []byte) (detail byte, ok bool) {
	if len(frame) <= detailOffset+footerLen-1 || frame[lenOffset] == 0 {
		return 0, false
	}

	return frame[detailOffset], true
}

// Payload returns the payload region of a structurally valid frame.
func Payload(frame []byte) []byte {
	return frame[headerLen : len(frame)-footerLen]
}

package utr

import (
	"encoding/binary"

	"github.com/utrkit/go-utr/internal/util"
)

// Inventory data frame payload geometry, expressed as frame offsets.
const (
	// rssiOffset is the start of the 2-byte RSSI field (frame offsets 5-6).
	rssiOffset = 5
	// uiiLenOffset holds the PC+UII length (frame offset 8).
	uiiLenOffset = 8
	// uiiOffset is the start of the PC+UII data (frame offset 9).
	uiiOffset = 9
	// summaryOffset is the start of the little-endian 2-byte tag count
	// inside an inventory summary ACK frame (frame offsets 6-7).
	summaryOffset = 6
)

// TagRecord is one tag read reported during an inventory cycle: the
// PC+UII identifier and the paired signal-strength reading.
type TagRecord struct {
	PCUII []byte
	RSSI  float64
}

// InventoryResult holds the typed outcome of one inventory
// command/response cycle.
type InventoryResult struct {
	// Tags lists the tags decoded from inventory data frames, in
	// arrival order.
	Tags []TagRecord

	// Nack is the device-reported fault when the cycle ended in a NACK
	// frame, nil otherwise.
	Nack *NACKError

	expected    uint16
	hasExpected bool
}

// ExpectedCount returns the tag count declared by the inventory summary
// ACK frame. ok is false when no summary frame was seen (e.g. the cycle
// timed out before the reader finished).
func (r *InventoryResult) ExpectedCount() (count uint16, ok bool) {
	return r.expected, r.hasExpected
}

// CountMismatch reports whether the reader declared a tag count that
// disagrees with the number of tags actually decoded. This is a
// consistency warning, not an error: both values remain available and
// the caller decides how to act.
func (r *InventoryResult) CountMismatch() bool {
	return r.hasExpected && int(r.expected) != len(r.Tags)
}

// DecodeInventory interprets the accumulated byte response of one
// inventory command cycle.
//
// It rescans data from offset 0 with the frame extractor and checksum
// gate, independent of any bookkeeping done while the bytes were
// received; this pass is the authoritative parse. For each valid frame:
// an inventory data frame contributes a TagRecord, an ACK carrying the
// inventory detail code contributes the expected count, and a NACK is
// decoded into the result's Nack field.
//
// A checksum failure mid-scan stops the scan and returns everything
// decoded so far: a later corrupt frame does not invalidate earlier
// valid ones.
func DecodeInventory(proto Protocol, data []byte) *InventoryResult {
	result := &InventoryResult{}

	for i := 0; i < len(data); {
		if data[i] != proto.STX {
			i++

			continue
		}

		frame, next, ok := proto.ExtractFrame(data, i)
		if !ok {
			// Truncated tail; nothing more to decode.
			break
		}

		if !VerifySum(frame) {
			return result
		}

		detail, _ := Detail(frame)

		switch cmd := Command(frame); {
		case cmd == proto.Inventory:
			result.addTag(frame)

		case cmd == proto.ACK && detail == proto.DetailInventory:
			if len(frame) >= summaryOffset+2+footerLen {
				result.expected = binary.LittleEndian.Uint16(frame[summaryOffset : summaryOffset+2])
				result.hasExpected = true
			}

		case cmd == proto.NACK:
			result.Nack = ParseNACK(frame)
		}

		i = next
	}

	return result
}

// addTag extracts the PC+UII and RSSI fields from one inventory data
// frame. The PC+UII length is declared inside the payload itself; a
// declared length running past the frame is clamped.
func (r *InventoryResult) addTag(frame []byte) {
	if len(frame) <= uiiLenOffset {
		return
	}

	end := uiiOffset + int(frame[uiiLenOffset])
	if end > len(frame)-footerLen {
		end = len(frame) - footerLen
	}
	if end < uiiOffset {
		return
	}

	r.Tags = append(r.Tags, TagRecord{
		PCUII: util.CloneSlice(frame[uiiOffset:end], 0),
		RSSI:  DecodeRSSI(frame[rssiOffset], frame[rssiOffset+1]),
	})
}

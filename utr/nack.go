package utr

import "fmt"

// NACKKind classifies the device error code carried in a NACK frame.
type NACKKind int

const (
	// NACKUnknown is any code not in the device error table.
	NACKUnknown NACKKind = iota
	// NACKCommandCRC: the CRC of the received command did not match (0x01).
	NACKCommandCRC
	// NACKTimeOver: the command data was cut off mid-transfer (0x02).
	NACKTimeOver
	// NACKCollision: an error occurred during anti-collision processing (0x03).
	NACKCollision
	// NACKNoTagResponse: no RF tag responded (0x04).
	NACKNoTagResponse
	// NACKCommandError: the reader hit an internal error executing the command (0x07).
	NACKCommandError
	// NACKTagChipError: the tag's built-in chip reported an error during access (0x0A).
	NACKTagChipError
	// NACKCarrierSense: carrier-sense (LBT) timed out (0x60).
	NACKCarrierSense
	// NACKHardwareError: a fault occurred inside the reader hardware (0x64).
	NACKHardwareError
	// NACKAntennaError: an antenna disconnection was detected (0x68).
	NACKAntennaError
	// NACKSumError: the SUM byte of the received command was wrong (0x42).
	NACKSumError
	// NACKFormatError: the command format or a parameter was invalid (0x44).
	NACKFormatError
)

var nackKinds = map[byte]NACKKind{
	0x01: NACKCommandCRC,
	0x02: NACKTimeOver,
	0x03: NACKCollision,
	0x04: NACKNoTagResponse,
	0x07: NACKCommandError,
	0x0A: NACKTagChipError,
	0x60: NACKCarrierSense,
	0x64: NACKHardwareError,
	0x68: NACKAntennaError,
	0x42: NACKSumError,
	0x44: NACKFormatError,
}

var nackDescriptions = map[NACKKind]string{
	NACKUnknown:       "unknown NACK code",
	NACKCommandCRC:    "CMD_CRC_ERROR: command data CRC mismatch",
	NACKTimeOver:      "CMD_TIME_OVER: command data cut off mid-transfer",
	NACKCollision:     "CMD_RX_ERROR: error during anti-collision processing",
	NACKNoTagResponse: "CMD_RXBUSY_ERROR: no response from any RF tag",
	NACKCommandError:  "CMD_ERROR: internal reader error while executing command",
	NACKTagChipError:  "CMD_UHF_IC_ERROR: tag chip error during access",
	NACKCarrierSense:  "CMD_LBT_ERROR: carrier-sense timeout",
	NACKHardwareError: "HARDWARE_ERROR: fault inside the reader hardware",
	NACKAntennaError:  "CMD_ANT_ERROR: antenna disconnection detected",
	NACKSumError:      "SUM_ERROR: checksum of the received command is wrong",
	NACKFormatError:   "FORMAT_ERROR: command format or parameter is invalid",
}

// String returns the device error table description for k.
func (k NACKKind) String() string {
	if desc, ok := nackDescriptions[k]; ok {
		return desc
	}

	return nackDescriptions[NACKUnknown]
}

// NACKError is a device-reported fault decoded from a NACK frame.
//
// It is always surfaced as data (a returned error value), never raised
// as control flow: a NACK frame is a structurally valid response, not a
// protocol failure.
type NACKError struct {
	Code byte
	Kind NACKKind
}

var _ error = (*NACKError)(nil)

func (e *NACKError) Error() string {
	if e.Kind == NACKUnknown {
		return fmt.Sprintf("utr: unknown NACK code 0x%02X", e.Code)
	}

	return fmt.Sprintf("utr: NACK 0x%02X: %s", e.Code, e.Kind)
}

// nackCodeOffset is the position of the device error code within a NACK
// frame (the second payload byte).
const nackCodeOffset = 5

// ParseNACK decodes the device error code of a NACK frame.
//
// frame must be a validated frame; ParseNACK returns nil when it is too
// short to carry an error code. Unrecognized codes map to NACKUnknown
// with the literal code preserved.
func ParseNACK(frame []byte) *NACKError {
	if len(frame) < minFrameLen || len(frame) <= nackCodeOffset+footerLen-1 {
		return nil
	}

	code := frame[nackCodeOffset]

	return &NACKError{Code: code, Kind: nackKinds[code]}
}

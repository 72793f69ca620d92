package utr

// Pre-built command frames for the UTR factory protocol, already framed
// and checksummed per the product protocol manual. The engine treats
// them as opaque byte-strings to send; their payload values are device
// configuration data, not protocol logic.
var (
	// CmdROMVersionCheck queries the reader firmware version. The ACK
	// carries DetailROM; it doubles as a link liveness check.
	CmdROMVersionCheck = []byte{0x02, 0x00, 0x4F, 0x01, 0x90, 0x03, 0xE5, 0x0D}

	// CmdCommandModeSet switches the reader into command mode.
	CmdCommandModeSet = []byte{0x02, 0x00, 0x4E, 0x07, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x03, 0x6A, 0x0D}

	// CmdInventory starts a UHF inventory round. The reader answers with
	// one data frame per tag read, then a summary ACK.
	CmdInventory = []byte{0x02, 0x00, 0x55, 0x01, 0x10, 0x03, 0x6B, 0x0D}

	// CmdGetInventoryParams reads the current inventory parameters.
	CmdGetInventoryParams = []byte{0x02, 0x00, 0x55, 0x02, 0x41, 0x00, 0x03, 0x9D, 0x0D}

	// CmdSetInventoryParams writes the sample inventory parameters.
	CmdSetInventoryParams = []byte{0x02, 0x00, 0x55, 0x09, 0x30, 0x00, 0x81, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x14, 0x0D}

	// CmdReadOutputPower reads the transmit output power setting.
	CmdReadOutputPower = []byte{0x02, 0x00, 0x55, 0x03, 0x43, 0x01, 0x00, 0x03, 0xA1, 0x0D}

	// CmdReadFreqChannel reads the configured frequency channel.
	CmdReadFreqChannel = []byte{0x02, 0x00, 0x55, 0x03, 0x43, 0x02, 0x00, 0x03, 0xA2, 0x0D}

	// CmdWriteTag writes the sample data word to a tag.
	CmdWriteTag = []byte{0x02, 0x00, 0x55, 0x08, 0x16, 0x01, 0x00, 0x00, 0x00, 0x02, 0x04, 0x56, 0x03, 0xD5, 0x0D}
)

// Buzzer command parameter values. The first payload byte selects
// whether the reader answers the buzzer command with a control frame,
// the second selects the sound pattern.
const (
	// BuzzerNoReply suppresses the control frame response.
	BuzzerNoReply byte = 0x00
	// BuzzerReply requests an ACK/NACK response (recommended).
	BuzzerReply byte = 0x01

	// SoundLong is a single long beep.
	SoundLong byte = 0x00
	// SoundShort3 is three short beeps.
	SoundShort3 byte = 0x01
	// SoundShort4 is four short beeps. Codes between SoundShort3 and
	// SoundShort4 select the other preset patterns of the device.
	SoundShort4 byte = 0x08
)

// frequencyChannels maps channel numbers 1..38 to the carrier frequency
// in MHz (916.0 through 923.4 in 0.2 MHz steps).
var frequencyChannels = []float64{
	916.0, 916.2, 916.4, 916.6, 916.8, 917.0, 917.2, 917.4, 917.6, 917.8,
	918.0, 918.2, 918.4, 918.6, 918.8, 919.0, 919.2, 919.4, 919.6, 919.8,
	920.0, 920.2, 920.4, 920.6, 920.8, 921.0, 921.2, 921.4, 921.6, 921.8,
	922.0, 922.2, 922.4, 922.6, 922.8, 923.0, 923.2, 923.4,
}

// FrequencyMHz resolves a 1-based frequency channel number to its
// carrier frequency in MHz. ok is false for channels outside the table.
func FrequencyMHz(channel int) (mhz float64, ok bool) {
	if channel < 1 || channel > len(frequencyChannels) {
		return 0, false
	}

	return frequencyChannels[channel-1], true
}

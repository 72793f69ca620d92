package utr

// DecodeRSSI converts the 2-byte signal strength field of an inventory
// data frame into a signed reading with one decimal digit of precision.
//
// The field is a big-endian two's-complement 16-bit value in tenths of
// a dBm, so 0xFFF6 decodes to -1.0 and 0x0000 to 0.0.
func DecodeRSSI(hi, lo byte) float64 {
	v := int16(uint16(hi)<<8 | uint16(lo))

	return float64(v) / 10
}

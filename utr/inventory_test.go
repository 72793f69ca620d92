package utr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInventory_Burst(t *testing.T) {
	proto := testProto()
	stream := concat(
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0x30, 0x00, 0xAA, 0x01}),
		inventoryTagFrame(proto, 0xFF, 0x9C, []byte{0x30, 0x00, 0xAA, 0x02}),
		inventoryTagFrame(proto, 0x00, 0x00, []byte{0x30, 0x00, 0xAA, 0x03}),
		summaryFrame(proto, 3),
	)

	result := DecodeInventory(proto, stream)

	require.Len(t, result.Tags, 3)
	assert.Equal(t, []byte{0x30, 0x00, 0xAA, 0x01}, result.Tags[0].PCUII)
	assert.Equal(t, []byte{0x30, 0x00, 0xAA, 0x02}, result.Tags[1].PCUII)
	assert.Equal(t, []byte{0x30, 0x00, 0xAA, 0x03}, result.Tags[2].PCUII)

	assert.InDelta(t, -1.0, result.Tags[0].RSSI, 1e-9)
	assert.InDelta(t, -10.0, result.Tags[1].RSSI, 1e-9)
	assert.InDelta(t, 0.0, result.Tags[2].RSSI, 1e-9)

	expected, ok := result.ExpectedCount()
	require.True(t, ok)
	assert.Equal(t, uint16(3), expected)
	assert.False(t, result.CountMismatch())
	assert.Nil(t, result.Nack)
}

func TestDecodeInventory_CountMismatch(t *testing.T) {
	proto := testProto()
	stream := concat(
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x01}),
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x02}),
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x03}),
		summaryFrame(proto, 4),
	)

	result := DecodeInventory(proto, stream)

	assert.Len(t, result.Tags, 3, "records are kept despite the mismatch")

	expected, ok := result.ExpectedCount()
	require.True(t, ok)
	assert.Equal(t, uint16(4), expected)
	assert.True(t, result.CountMismatch())
}

func TestDecodeInventory_PartialOnChecksumFailure(t *testing.T) {
	proto := testProto()
	stream := concat(
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x01}),
		corruptSum(inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x02})),
		summaryFrame(proto, 2),
	)

	result := DecodeInventory(proto, stream)

	// Everything decoded before the corrupt frame survives; the scan
	// stops there, so the summary is never reached.
	require.Len(t, result.Tags, 1)
	assert.Equal(t, []byte{0xAA, 0x01}, result.Tags[0].PCUII)

	_, ok := result.ExpectedCount()
	assert.False(t, ok)
	assert.False(t, result.CountMismatch())
}

func TestDecodeInventory_Empty(t *testing.T) {
	proto := testProto()

	result := DecodeInventory(proto, nil)

	assert.Empty(t, result.Tags)
	_, ok := result.ExpectedCount()
	assert.False(t, ok)
	assert.False(t, result.CountMismatch())
	assert.Nil(t, result.Nack)
}

func TestDecodeInventory_NACK(t *testing.T) {
	proto := testProto()

	result := DecodeInventory(proto, nackFrame(proto, 0x04))

	assert.Empty(t, result.Tags)
	require.NotNil(t, result.Nack)
	assert.Equal(t, NACKNoTagResponse, result.Nack.Kind)
}

func TestDecodeInventory_SkipsInterFrameGarbage(t *testing.T) {
	proto := testProto()
	stream := concat(
		[]byte{0x00, 0x11, 0x22},
		inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x01}),
		[]byte{0x33},
		summaryFrame(proto, 1),
	)

	result := DecodeInventory(proto, stream)

	require.Len(t, result.Tags, 1)

	expected, ok := result.ExpectedCount()
	require.True(t, ok)
	assert.Equal(t, uint16(1), expected)
	assert.False(t, result.CountMismatch())
}

func TestDecodeInventory_TruncatedTail(t *testing.T) {
	proto := testProto()
	full := inventoryTagFrame(proto, 0xFF, 0xF6, []byte{0xAA, 0x01})
	stream := concat(full, full[:5])

	result := DecodeInventory(proto, stream)

	assert.Len(t, result.Tags, 1, "the truncated tail is ignored")
}

package utr

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryStats_Observe(t *testing.T) {
	st := NewInventoryStats()

	round1 := &InventoryResult{
		Tags: []TagRecord{
			{PCUII: []byte{0x30, 0x00, 0xAA, 0x01}, RSSI: -1.0},
			{PCUII: []byte{0x30, 0x00, 0xAA, 0x02}, RSSI: -10.0},
		},
		expected:    2,
		hasExpected: true,
	}
	round2 := &InventoryResult{
		Tags: []TagRecord{
			{PCUII: []byte{0x30, 0x00, 0xAA, 0x01}, RSSI: -1.5},
		},
		expected:    1,
		hasExpected: true,
	}

	st.Observe(round1, 100*time.Millisecond)
	st.Observe(round2, 200*time.Millisecond)

	assert.Equal(t, uint64(2), st.Rounds())
	assert.Equal(t, uint64(3), st.TagsExpected())
	assert.Equal(t, 300*time.Millisecond, st.TotalReadTime())
	assert.InDelta(t, 1.5, st.AverageTagsPerRound(), 1e-9)

	counts := st.Counts()
	assert.Equal(t, uint64(2), counts["3000aa01"])
	assert.Equal(t, uint64(1), counts["3000aa02"])
}

func TestInventoryStats_TimedOutRound(t *testing.T) {
	st := NewInventoryStats()

	// A timed-out round has tags but no reader-declared count.
	st.Observe(&InventoryResult{
		Tags: []TagRecord{{PCUII: []byte{0xAA, 0x01}}},
	}, 50*time.Millisecond)

	assert.Equal(t, uint64(1), st.Rounds())
	assert.Zero(t, st.TagsExpected())
	assert.Equal(t, uint64(1), st.Counts()["aa01"])
}

func TestInventoryStats_Empty(t *testing.T) {
	st := NewInventoryStats()

	assert.Zero(t, st.Rounds())
	assert.Zero(t, st.AverageTagsPerRound())
	assert.Empty(t, st.Counts())
}

func TestInventoryStats_Concurrent(t *testing.T) {
	st := NewInventoryStats()
	result := &InventoryResult{
		Tags:        []TagRecord{{PCUII: []byte{0xAA, 0x01}}},
		expected:    1,
		hasExpected: true,
	}

	const workers = 8
	const roundsPerWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < roundsPerWorker; j++ {
				st.Observe(result, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*roundsPerWorker), st.Rounds())
	assert.Equal(t, uint64(workers*roundsPerWorker), st.Counts()["aa01"])
}

func TestInventoryStats_WriteReport(t *testing.T) {
	st := NewInventoryStats()
	st.Observe(&InventoryResult{
		Tags: []TagRecord{
			{PCUII: []byte{0x30, 0x00, 0xAA, 0x02}},
			{PCUII: []byte{0x30, 0x00, 0xAA, 0x01}},
		},
		expected:    2,
		hasExpected: true,
	}, time.Second)

	var sb strings.Builder
	require.NoError(t, st.WriteReport(&sb))
	report := sb.String()

	assert.Contains(t, report, "rounds:          1")
	assert.Contains(t, report, "3000aa01: 1")
	assert.Contains(t, report, "3000aa02: 1")
	assert.Less(t,
		strings.Index(report, "3000aa01"),
		strings.Index(report, "3000aa02"),
		"tags are sorted by PC+UII")
}

package utr

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// InventoryStats aggregates tag reads across inventory rounds: how
// often each PC+UII was seen, how many rounds ran, and how long they
// took. It is safe for concurrent use, e.g. one collector shared by
// several readers.
type InventoryStats struct {
	counts *xsync.MapOf[string, uint64]

	rounds       atomic.Uint64
	tagsExpected atomic.Uint64
	readTimeNs   atomic.Int64
}

// NewInventoryStats creates an empty collector.
func NewInventoryStats() *InventoryStats {
	return &InventoryStats{
		counts: xsync.NewMapOf[string, uint64](),
	}
}

// Observe folds one inventory round into the statistics. elapsed is the
// wall time the round took, including communication.
func (st *InventoryStats) Observe(result *InventoryResult, elapsed time.Duration) {
	st.rounds.Add(1)
	st.readTimeNs.Add(int64(elapsed))

	if expected, ok := result.ExpectedCount(); ok {
		st.tagsExpected.Add(uint64(expected))
	}

	for _, tag := range result.Tags {
		key := hex.EncodeToString(tag.PCUII)
		st.counts.Compute(key, func(old uint64, _ bool) (uint64, bool) {
			return old + 1, false
		})
	}
}

// Rounds returns the number of rounds observed.
func (st *InventoryStats) Rounds() uint64 {
	return st.rounds.Load()
}

// TagsExpected returns the sum of the reader-declared tag counts.
func (st *InventoryStats) TagsExpected() uint64 {
	return st.tagsExpected.Load()
}

// TotalReadTime returns the accumulated round wall time.
func (st *InventoryStats) TotalReadTime() time.Duration {
	return time.Duration(st.readTimeNs.Load())
}

// AverageTagsPerRound returns the mean reader-declared tag count per
// round, 0 when no rounds were observed.
func (st *InventoryStats) AverageTagsPerRound() float64 {
	rounds := st.rounds.Load()
	if rounds == 0 {
		return 0
	}

	return float64(st.tagsExpected.Load()) / float64(rounds)
}

// Counts returns a snapshot of per-tag read counts, keyed by the PC+UII
// in hex.
func (st *InventoryStats) Counts() map[string]uint64 {
	out := make(map[string]uint64)
	st.counts.Range(func(key string, value uint64) bool {
		out[key] = value

		return true
	})

	return out
}

// WriteReport writes a timestamped plain-text summary to w, one line
// per distinct tag sorted by PC+UII.
func (st *InventoryStats) WriteReport(w io.Writer) error {
	counts := st.Counts()

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now().Format("2006-01-02 15:04:05")

	if _, err := fmt.Fprintf(w, "=== inventory summary (%s) ===\n", now); err != nil {
		return err
	}

	fmt.Fprintf(w, "rounds:          %d\n", st.Rounds())
	fmt.Fprintf(w, "total read time: %.2fs\n", st.TotalReadTime().Seconds())
	fmt.Fprintf(w, "avg tags/round:  %.2f\n", st.AverageTagsPerRound())
	fmt.Fprintln(w, "reads per PC+UII:")

	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %d\n", key, counts[key])
	}

	_, err := fmt.Fprintln(w, "=== end ===")

	return err
}

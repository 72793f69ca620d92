package utr

import (
	"sync/atomic"
)

// SessionMetrics contains atomic metrics for a reader session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// CommandSendCount indicates the number of commands sent.
	CommandSendCount atomic.Uint64
	// FrameRecvCount indicates the number of validated frames received.
	FrameRecvCount atomic.Uint64
	// ResyncDropCount indicates the number of bytes discarded during
	// resynchronization.
	ResyncDropCount atomic.Uint64
	// ChecksumErrCount indicates the number of frame candidates rejected
	// by the checksum gate.
	ChecksumErrCount atomic.Uint64
	// NACKRecvCount indicates the number of NACK control frames received.
	NACKRecvCount atomic.Uint64
	// TimeoutCount indicates the number of command cycles that expired
	// without a control frame.
	TimeoutCount atomic.Uint64
}

func (m *SessionMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *SessionMetrics) incNACKRecvCount() {
	m.NACKRecvCount.Add(1)
}

func (m *SessionMetrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

// observeSync folds one finished synchronizer run into the counters.
func (m *SessionMetrics) observeSync(s *Synchronizer) {
	m.FrameRecvCount.Add(uint64(len(s.Frames())))
	m.ResyncDropCount.Add(s.ResyncDrops())
	m.ChecksumErrCount.Add(s.ChecksumFailures())
}

// Package pool provides pooled time.Timer instances for timeout-bounded
// operations, avoiding a timer allocation per command cycle.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer set to fire after d, taken from the pool when
// one is available.
//
// Return the timer to the pool with PutTimer when done.
func GetTimer(d time.Duration) *time.Timer {
	v := timerPool.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t, _ := v.(*time.Timer) // the pool only ever holds *time.Timer
	if t.Reset(d) {
		// The timer was still active; drain a possibly pending tick.
		select {
		case <-t.C:
		default:
		}
	}

	return t
}

// PutTimer stops t and returns it to the pool.
//
// t must not be used after the call.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		// Drain t.C in case the tick was never consumed.
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}

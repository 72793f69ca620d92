package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool_GetPut(t *testing.T) {
	timer1 := GetTimer(time.Second)
	assert.NotNil(t, timer1)

	PutTimer(timer1)

	timer2 := GetTimer(10 * time.Millisecond)
	assert.NotNil(t, timer2)

	<-timer2.C
	PutTimer(timer2)
}

func TestTimerPool_PutActiveTimer(t *testing.T) {
	timer1 := GetTimer(100 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// Put back while still active; the next Get must reset it cleanly.
	PutTimer(timer1)

	begin := time.Now()
	timer2 := GetTimer(300 * time.Millisecond)

	select {
	case tick := <-timer2.C:
		if tick.Sub(begin) < 270*time.Millisecond {
			t.Error("recycled timer fired early, stale reset")
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("recycled timer did not fire")
	}

	PutTimer(timer2)
}

func TestTimerPool_Concurrency(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			timer := GetTimer(10 * time.Millisecond)
			defer PutTimer(timer)
			<-timer.C
		}()
	}
	wg.Wait()
}

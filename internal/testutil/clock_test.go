package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_StartsAtEpoch(t *testing.T) {
	clock := NewStepClock(time.Time{}, time.Second)
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_AdvancesByStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewStepClock(start, 250*time.Millisecond)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(250*time.Millisecond), clock.Now())
	assert.Equal(t, start.Add(500*time.Millisecond), clock.Peek())
	assert.Equal(t, start.Add(500*time.Millisecond), clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(time.Time{}, time.Millisecond)
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	want := Epoch.Add(numGoroutines * callsPerGoroutine * time.Millisecond)
	assert.Equal(t, want, clock.Peek())
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("snap-123")
	assert.Equal(t, "snap-123", gen.Generate())
	assert.Equal(t, "snap-123", gen.Generate())

	assert.Equal(t, "test-snapshot-default", NewFixedIDGenerator("").Generate())
}

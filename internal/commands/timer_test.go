package commands

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTimer_FiresOnce(t *testing.T) {
	var fired atomic.Int32
	rt := &resetTimer{}

	rt.Schedule(10*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, time.Millisecond)
}

func TestResetTimer_ScheduleReplacesPrior(t *testing.T) {
	var first, second atomic.Int32
	rt := &resetTimer{}

	rt.Schedule(20*time.Millisecond, func() { first.Add(1) })
	rt.Schedule(20*time.Millisecond, func() { second.Add(1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "superseded timer must not fire")
	assert.Equal(t, int32(1), second.Load())
}

func TestResetTimer_Cancel(t *testing.T) {
	var fired atomic.Int32
	rt := &resetTimer{}

	rt.Schedule(20*time.Millisecond, func() { fired.Add(1) })
	rt.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	// повторный Cancel безопасен
	assert.NotPanics(t, rt.Cancel)
}

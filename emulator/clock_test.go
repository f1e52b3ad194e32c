package emulator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_Done(t *testing.T) {
	assert := assert.New(t)

	var count int
	clk := NewClock(0, func() (bool, error) {
		count++
		return count == 10, nil
	})

	assert.False(clk.Running())
	assert.NoError(clk.Wait())

	assert.True(clk.Start(context.Background()))
	assert.NoError(clk.Wait())
	assert.False(clk.Running())
	assert.Equal(10, count)

	// Stop after the clock finished on its own.
	clk.Stop()
	clk.Stop()
	assert.Equal(10, count)
}

func TestClock_Error(t *testing.T) {
	assert := assert.New(t)

	errTick := errors.New("tick failed")
	clk := NewClock(time.Microsecond, func() (bool, error) {
		return false, errTick
	})

	assert.True(clk.Start(context.Background()))
	assert.Equal(errTick, clk.Wait())
}

func TestClock_Idempotent(t *testing.T) {
	assert := assert.New(t)

	var ticks atomic.Int64
	var active atomic.Int64
	var overlap atomic.Bool
	clk := NewClock(time.Millisecond, func() (bool, error) {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		ticks.Add(1)
		active.Add(-1)
		return false, nil
	})

	assert.True(clk.Start(context.Background()))
	assert.False(clk.Start(context.Background()))
	assert.False(clk.Start(context.Background()))
	assert.True(clk.Running())

	assert.Eventually(func() bool { return ticks.Load() >= 3 }, 5*time.Second, time.Millisecond)

	clk.Stop()
	assert.False(clk.Running())
	assert.Equal(ErrClockStopped, clk.Wait())

	stopped := ticks.Load()
	clk.Stop()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(stopped, ticks.Load())
	assert.False(overlap.Load())

	// Restart after a stop.
	assert.True(clk.Start(context.Background()))
	assert.Eventually(func() bool { return ticks.Load() > stopped }, 5*time.Second, time.Millisecond)
	clk.Stop()
}

func TestClock_Context(t *testing.T) {
	assert := assert.New(t)

	clk := NewClock(time.Millisecond, func() (bool, error) {
		return false, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	assert.True(clk.Start(ctx))
	cancel()

	assert.Equal(ErrClockStopped, clk.Wait())
	assert.False(clk.Running())
	clk.Stop()
}

func TestClock_Emulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doLoad(t, emu, []string{
		"LDI R0,8",
		"LDI R1,9",
		"MUL R0,R1",
		"PRN R0",
		"HLT",
	})

	clk := NewClock(time.Microsecond, emu.Tick)
	assert.True(clk.Start(context.Background()))
	assert.NoError(clk.Wait())
	assert.Equal("72\n", output.String())
	assert.Equal(5, emu.Ticks())
}

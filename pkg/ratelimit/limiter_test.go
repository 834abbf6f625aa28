package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFast reports whether Wait returns a token within a few milliseconds
func waitFast(l Limiter) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	return l.Wait(ctx) == nil
}

func TestPerMinuteBurst(t *testing.T) {
	l := NewPerMinute(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, waitFast(l), "token %d should be available", i+1)
	}
	assert.False(t, waitFast(l), "burst should be exhausted")
}

func TestPerMinuteWaitRefills(t *testing.T) {
	// 1200/min is one token every 50ms
	l := NewPerMinute(1200, 1)
	require.True(t, waitFast(l))

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPerMinuteWaitHonoursContext(t *testing.T) {
	l := NewPerMinute(1, 1)
	require.True(t, waitFast(l))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx))
}

func TestPerMinuteDefaults(t *testing.T) {
	l := NewPerMinute(0, 0)
	assert.True(t, waitFast(l))
	assert.False(t, waitFast(l))
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	for i := 0; i < 100; i++ {
		assert.True(t, waitFast(l))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

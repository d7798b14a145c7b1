package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimited(t *testing.T) {
	l := Unlimited()
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow())
	}
	assert.NoError(t, l.Wait(context.Background()))
}

func TestNew_LimitsBurst(t *testing.T) {
	l := New(1, 2)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestWait_RespectsContext(t *testing.T) {
	l := New(0.01, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx))
}

func TestNilLimiter(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow())
	assert.NoError(t, l.Wait(context.Background()))
}

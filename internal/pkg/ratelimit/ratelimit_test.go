package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial calls", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst is refused", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst, time.Minute)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("sess") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyed_KeysAreIndependent(t *testing.T) {
	rl := New(1, 1, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestKeyed_WaitHonoursContext(t *testing.T) {
	rl := New(0.001, 1, time.Minute)
	assert.True(t, rl.Allow("slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, rl.Wait(ctx, "slow"))
}

func TestKeyed_EvictsIdleKeys(t *testing.T) {
	rl := New(1, 1, time.Minute)
	base := time.Now()
	rl.now = func() time.Time { return base }
	rl.Allow("old")

	rl.now = func() time.Time { return base.Add(2 * time.Minute) }
	rl.Allow("new")

	assert.Equal(t, 1, rl.Len())
}

func TestKeyed_Forget(t *testing.T) {
	rl := New(1, 1, 0)
	rl.Allow("a")
	rl.Forget("a")
	assert.Equal(t, 0, rl.Len())
	assert.True(t, rl.Allow("a"), "forgotten key starts with a full bucket")
}

package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPlayerAdvancesWhilePlaying(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	player := NewPlayer(9*time.Second, WithClock(clock))

	assert.True(t, player.Paused())
	assert.Equal(t, time.Duration(0), player.CurrentTime())

	player.Play()
	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, player.CurrentTime())

	player.Pause()
	clock.Advance(5 * time.Second)
	assert.Equal(t, 3*time.Second, player.CurrentTime(), "a paused player must not advance")
}

func TestPlayerStopsAtDuration(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	player := NewPlayer(9*time.Second, WithClock(clock))

	player.Play()
	clock.Advance(20 * time.Second)

	assert.Equal(t, 9*time.Second, player.CurrentTime())
	assert.True(t, player.Paused(), "reaching the end must pause playback")
}

func TestPlayerSeekClamps(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	player := NewPlayer(9*time.Second, WithClock(clock))

	player.Seek(5 * time.Second)
	assert.Equal(t, 5*time.Second, player.CurrentTime())

	player.Seek(time.Minute)
	assert.Equal(t, 9*time.Second, player.CurrentTime())

	player.Seek(-time.Second)
	assert.Equal(t, time.Duration(0), player.CurrentTime())
}

func TestPlayerSeekWhilePlayingRebases(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	player := NewPlayer(9*time.Second, WithClock(clock))

	player.Play()
	clock.Advance(4 * time.Second)
	player.Seek(time.Second)
	clock.Advance(time.Second)

	assert.Equal(t, 2*time.Second, player.CurrentTime())
}

func TestPlayerTimeUpdateListener(t *testing.T) {
	t.Parallel()

	player := NewPlayer(time.Minute)
	defer player.Close()

	updates := make(chan time.Duration, 16)
	cancel := player.OnTimeUpdate(func(position time.Duration) {
		select {
		case updates <- position:
		default:
		}
	})
	defer cancel()

	player.Play()

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a time update while playing")
	}

	cancel()
	player.Pause()

	// Cancel is idempotent.
	cancel()
}

func TestPlayerCancelAfterClose(t *testing.T) {
	t.Parallel()

	player := NewPlayer(time.Minute)

	cancel := player.OnTimeUpdate(func(time.Duration) {})
	player.Close()

	require.NotPanics(t, func() { cancel() })
	assert.Empty(t, player.listeners)
}

package playback_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humdle/humdle-cli/internal/playback"
)

type fakeMedia struct {
	mu       sync.Mutex
	position time.Duration
	duration time.Duration
	paused   bool
	seeks    []time.Duration
}

func newFakeMedia(duration time.Duration) *fakeMedia {
	return &fakeMedia{duration: duration, paused: true}
}

func (m *fakeMedia) CurrentTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *fakeMedia) Seek(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = position
	m.seeks = append(m.seeks, position)
}

func (m *fakeMedia) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *fakeMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *fakeMedia) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
}

func (m *fakeMedia) OnTimeUpdate(fn func(position time.Duration)) func() {
	return func() {}
}

func (m *fakeMedia) setPosition(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = position
}

func (m *fakeMedia) lastSeek() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.seeks) == 0 {
		return 0, false
	}
	return m.seeks[len(m.seeks)-1], true
}

func TestPlayerToggleResumesAtPausedPosition(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))

	player.Toggle()
	require.False(t, media.Paused())

	media.setPosition(4 * time.Second)
	player.Toggle()
	require.True(t, media.Paused())

	media.setPosition(5 * time.Second)
	player.Toggle()

	seek, ok := media.lastSeek()
	require.True(t, ok)
	assert.Equal(t, 4*time.Second, seek, "resume must continue where the pause happened")
	assert.False(t, media.Paused())
}

func TestPlayerToggleAtUnlockedEndRestarts(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))

	media.setPosition(9 * time.Second)
	player.Toggle()

	seek, ok := media.lastSeek()
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), seek)
	assert.False(t, media.Paused())
}

func TestPlayerBackAndForwardSnapToSeekPoints(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))
	media.setPosition(6 * time.Second)

	require.True(t, player.Back())
	seek, ok := media.lastSeek()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, seek)

	media.setPosition(6 * time.Second)
	require.True(t, player.Forward())
	seek, ok = media.lastSeek()
	require.True(t, ok)
	assert.Equal(t, 9*time.Second, seek)
}

func TestPlayerBackAtZeroIsNoOp(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))

	assert.False(t, player.Back())
	_, ok := media.lastSeek()
	assert.False(t, ok)
}

func TestPlayerForwardStopsAtUnlockedEnd(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))
	media.setPosition(9 * time.Second)

	assert.False(t, player.Forward(), "locked boundaries must not be reachable")
}

func TestPlayerSetGameExtendsSeekPoints(t *testing.T) {
	t.Parallel()

	media := newFakeMedia(30 * time.Second)
	player := playback.NewPlayer(media, gameWithGuesses(2))
	media.setPosition(9 * time.Second)

	player.SetGame(gameWithGuesses(3))

	require.True(t, player.Forward())
	seek, ok := media.lastSeek()
	require.True(t, ok)
	assert.Equal(t, 14*time.Second, seek)
}

package playback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humdle/humdle-cli/internal/domain"
	"github.com/humdle/humdle-cli/internal/playback"
)

func gameWithGuesses(guesses int) domain.Game {
	game := domain.Game{
		ID: 1,
		Constants: domain.GameConstants{
			MusicClipMillis: []int64{2000, 5000, 9000, 14000, 20000, 27000},
		},
	}
	for range guesses {
		game.Guesses = append(game.Guesses, domain.Guess{})
	}

	return game
}

func TestSegmentsUnlockCountFollowsGuesses(t *testing.T) {
	t.Parallel()

	segments := playback.Segments(gameWithGuesses(2), 0)
	require.Len(t, segments, 6)

	for n, segment := range segments {
		assert.Equal(t, n < 3, segment.Unlocked, "segment %d", n)
	}
}

func TestSegmentsTerminalGameUnlocksEverything(t *testing.T) {
	t.Parallel()

	game := gameWithGuesses(2)
	won := false
	game.Won = &won

	for n, segment := range playback.Segments(game, 0) {
		assert.True(t, segment.Unlocked, "segment %d", n)
	}
}

func TestSegmentsProgressIsClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		positionMillis int64
		want           []float64
	}{
		{
			name:           "at start",
			positionMillis: 0,
			want:           []float64{0, 0, 0},
		},
		{
			name:           "inside second segment",
			positionMillis: 3500,
			want:           []float64{1, 0.5, 0},
		},
		{
			name:           "past unlocked region",
			positionMillis: 50000,
			want:           []float64{1, 1, 1},
		},
		{
			name:           "negative position",
			positionMillis: -100,
			want:           []float64{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segments := playback.Segments(gameWithGuesses(2), tt.positionMillis)
			for n, want := range tt.want {
				assert.InDelta(t, want, segments[n].Progress, 1e-9, "segment %d", n)
			}
		})
	}
}

func TestSeekPointsIncludeZeroAndUnlockedBoundaries(t *testing.T) {
	t.Parallel()

	points := playback.SeekPoints(gameWithGuesses(2))
	assert.Equal(t, []int64{0, 2000, 5000, 9000}, points)
}

func TestSeekBackAndForward(t *testing.T) {
	t.Parallel()

	points := []int64{0, 2000, 5000, 9000}

	back, ok := playback.SeekBack(points, 6000)
	require.True(t, ok)
	assert.EqualValues(t, 5000, back)

	forward, ok := playback.SeekForward(points, 6000)
	require.True(t, ok)
	assert.EqualValues(t, 9000, forward)

	// Exactly on a boundary jumps strictly past it.
	back, ok = playback.SeekBack(points, 5000)
	require.True(t, ok)
	assert.EqualValues(t, 2000, back)

	_, ok = playback.SeekBack(points, 0)
	assert.False(t, ok)

	_, ok = playback.SeekForward(points, 9000)
	assert.False(t, ok)
}

func TestUnlockedEndMillis(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 9000, playback.UnlockedEndMillis(gameWithGuesses(2)))
	assert.EqualValues(t, 2000, playback.UnlockedEndMillis(gameWithGuesses(0)))
}

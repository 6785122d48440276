// Package playback maps audio position onto the server-defined set of
// unlocked clip segments. Everything here is a pure function of the game
// and the current position; the package performs no I/O.
package playback

import "github.com/humdle/humdle-cli/internal/domain"

// Segment is one guess slot's slice of the track. Progress is always
// within [0, 1]; locked segments report zero progress and are not
// seekable.
type Segment struct {
	StartMillis int64
	EndMillis   int64
	Unlocked    bool
	Progress    float64
}

// Segments computes the per-segment view for the given position. Widths
// follow from consecutive clip boundaries, with an implicit boundary at
// zero before the first.
func Segments(game domain.Game, positionMillis int64) []Segment {
	boundaries := game.Constants.MusicClipMillis
	unlocked := game.UnlockedSegments()

	segments := make([]Segment, 0, len(boundaries))
	last := int64(0)
	for n, boundary := range boundaries {
		segment := Segment{
			StartMillis: last,
			EndMillis:   boundary,
			Unlocked:    n < unlocked,
		}
		if segment.Unlocked {
			segment.Progress = progress(last, boundary, positionMillis)
		}
		segments = append(segments, segment)
		last = boundary
	}

	return segments
}

// progress clamps both ends, so positions outside the segment can never
// produce a fraction outside [0, 1].
func progress(startMillis, endMillis, positionMillis int64) float64 {
	width := endMillis - startMillis
	if width <= 0 {
		return 0
	}

	into := positionMillis - startMillis
	if into < 0 {
		into = 0
	}
	if into > width {
		into = width
	}

	return float64(into) / float64(width)
}

// SeekPoints lists the positions the back/forward controls may jump to:
// zero plus every unlocked clip boundary.
func SeekPoints(game domain.Game) []int64 {
	boundaries := game.Constants.MusicClipMillis
	unlocked := game.UnlockedSegments()
	if unlocked > len(boundaries) {
		unlocked = len(boundaries)
	}

	points := make([]int64, 0, unlocked+1)
	points = append(points, 0)
	points = append(points, boundaries[:unlocked]...)

	return points
}

// SeekBack returns the greatest seek point strictly before the position,
// or false when none exists (the control is disabled).
func SeekBack(points []int64, positionMillis int64) (int64, bool) {
	target := int64(0)
	found := false
	for _, point := range points {
		if point < positionMillis {
			target = point
			found = true
		}
	}

	return target, found
}

// SeekForward returns the smallest seek point strictly after the
// position, or false when none exists.
func SeekForward(points []int64, positionMillis int64) (int64, bool) {
	for _, point := range points {
		if point > positionMillis {
			return point, true
		}
	}

	return 0, false
}

// UnlockedEndMillis is the end of the last unlocked segment: the furthest
// position the player may listen or seek to.
func UnlockedEndMillis(game domain.Game) int64 {
	points := SeekPoints(game)
	return points[len(points)-1]
}

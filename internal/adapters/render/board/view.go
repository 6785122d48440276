package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/humdle/humdle-cli/internal/domain"
	"github.com/humdle/humdle-cli/internal/playback"
)

// charsPerSecond scales clip segments to terminal columns.
const charsPerSecond = 2

type RenderOptions struct {
	// PositionMillis fills the unlocked segments up to the playback
	// position. Zero renders an unplayed bar.
	PositionMillis int64
}

func renderView(game domain.Game, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(gameTitle(game)),
		s.header.Render(fmt.Sprintf("guess %d of %d", guessNumber(game), game.Constants.MaxGuesses())),
		renderSegmentBar(game, opts.PositionMillis, s),
	}

	for _, line := range guessLines(game, s) {
		lines = append(lines, line)
	}

	if game.IsOver() {
		lines = append(lines, renderOutcome(game, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func gameTitle(game domain.Game) string {
	switch {
	case game.IsDaily:
		return "Daily game"
	case game.Genre != nil:
		return fmt.Sprintf("Game (%s)", game.Genre.Name)
	default:
		return "Game"
	}
}

func guessNumber(game domain.Game) int {
	max := game.Constants.MaxGuesses()
	if game.IsOver() {
		return max
	}

	n := len(game.Guesses) + 1
	if n > max {
		n = max
	}
	return n
}

// renderSegmentBar draws one bracketed span per clip segment, sized by
// its share of the clip. Unlocked segments fill with the playback
// position; locked ones render as dots.
func renderSegmentBar(game domain.Game, positionMillis int64, s styles) string {
	segments := playback.Segments(game, positionMillis)

	parts := make([]string, 0, len(segments)*3)
	for _, segment := range segments {
		width := segmentWidth(segment)
		parts = append(parts, s.barBracket.Render("["))
		if segment.Unlocked {
			filled := int(math.Round(segment.Progress * float64(width)))
			if filled > width {
				filled = width
			}
			parts = append(parts,
				s.barFill.Render(strings.Repeat("=", filled)),
				s.barEmpty.Render(strings.Repeat("-", width-filled)),
			)
		} else {
			parts = append(parts, s.barLocked.Render(strings.Repeat("·", width)))
		}
		parts = append(parts, s.barBracket.Render("]"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func segmentWidth(segment playback.Segment) int {
	width := int((segment.EndMillis - segment.StartMillis) * charsPerSecond / 1000)
	if width < 1 {
		width = 1
	}
	return width
}

func guessLines(game domain.Game, s styles) []string {
	lines := make([]string, 0, game.Constants.MaxGuesses())
	for n := 0; n < game.Constants.MaxGuesses(); n++ {
		index := s.slotIndex.Render(fmt.Sprintf("%d.", n+1))
		var body string
		switch {
		case n < len(game.Guesses):
			body = guessLabel(game.Guesses[n], s)
		default:
			body = s.guessOpen.Render("·")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, index, " ", body))
	}

	return lines
}

func guessLabel(guess domain.Guess, s styles) string {
	if guess.Track == nil {
		return s.guessSkip.Render("skipped")
	}

	return s.guessMiss.Render(fmt.Sprintf("%s - %s", guess.Track.Title, guess.Track.ArtistName))
}

func renderOutcome(game domain.Game, s styles) string {
	var verdict string
	if game.Won != nil && *game.Won {
		verdict = s.won.Render(fmt.Sprintf("Won in %d!", len(game.Guesses)))
	} else {
		verdict = s.lost.Render("Lost.")
	}

	if game.Track == nil {
		return verdict
	}

	reveal := s.track.Render(fmt.Sprintf("%s - %s", game.Track.Title, game.Track.ArtistName))
	if game.Track.AlbumName != "" {
		reveal += s.detail.Render(fmt.Sprintf(" (%s)", game.Track.AlbumName))
	}

	return lipgloss.JoinVertical(lipgloss.Left, verdict, reveal)
}

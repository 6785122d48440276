package domain

import "time"

type GameID int64

// GameConstants are the immutable per-game clip settings issued by the
// server alongside every game response.
type GameConstants struct {
	// MusicClipMillis holds the cumulative unlock boundaries in
	// milliseconds, one per guess slot, monotonically increasing.
	MusicClipMillis []int64
	// TimedUnlockMillis holds, for timed games, the offsets into the game
	// at which each clip unlocks. The final element is the moment the game
	// ends.
	TimedUnlockMillis []int64
}

// MaxGuesses is the number of guess slots, one per clip boundary.
func (c GameConstants) MaxGuesses() int {
	return len(c.MusicClipMillis)
}

type Game struct {
	ID        GameID
	StartedAt time.Time
	IsDaily   bool
	IsTimed   bool
	Genre     *Genre
	Guesses   []Guess
	Won       *bool  // nil while the game is in progress
	Track     *Track // nil until the game ends
	Constants GameConstants
}

// Guess is one used guess slot. A nil Track denotes a skipped slot.
type Guess struct {
	Track     *Track
	GuessedAt time.Time
}

// IsOver reports whether the game has reached its terminal state. A
// terminal game is immutable.
func (g Game) IsOver() bool {
	return g.Won != nil
}

// UnlockedSegments is the number of clip segments the player may hear:
// one per guess made plus the segment for their next guess, or every
// segment once the game is over.
func (g Game) UnlockedSegments() int {
	max := g.Constants.MaxGuesses()
	if g.IsOver() {
		return max
	}
	unlocked := len(g.Guesses) + 1
	if unlocked > max {
		return max
	}
	return unlocked
}

// RecentGames points at the games the server considers current for the
// account: today's daily game and the ongoing game, if either exists.
type RecentGames struct {
	Daily   *GameID
	Ongoing *GameID
}

// GameRecord is the locally archived summary of a finished game.
type GameRecord struct {
	ID         GameID
	StartedAt  time.Time
	FinishedAt time.Time
	Won        bool
	Guesses    int
	IsDaily    bool
	IsTimed    bool
	Genre      string
	TrackTitle string
	ArtistName string
}

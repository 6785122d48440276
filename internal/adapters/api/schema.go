package api

import (
	"errors"
	"time"

	"github.com/humdle/humdle-cli/internal/domain"
)

type accountSchema struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s accountSchema) toDomain() domain.Account {
	return domain.Account{
		ID:          s.ID,
		DisplayName: s.DisplayName,
		CreatedAt:   s.CreatedAt,
	}
}

type genreSchema struct {
	ID      domain.GenreID `json:"id"`
	Name    string         `json:"name"`
	Picture string         `json:"picture"`
}

func (s genreSchema) toDomain() domain.Genre {
	return domain.Genre(s)
}

type trackSchema struct {
	ID         domain.TrackID `json:"id"`
	Title      string         `json:"title"`
	Link       string         `json:"link"`
	ArtistName string         `json:"artistName"`
	AlbumName  string         `json:"albumName"`
	AlbumCover string         `json:"albumCover"`
}

func (s trackSchema) toDomain() domain.Track {
	return domain.Track(s)
}

type guessSchema struct {
	Track     *trackSchema `json:"track"`
	GuessedAt time.Time    `json:"guessedAt"`
}

type constantsSchema struct {
	MaxGuesses        int     `json:"maxGuesses"`
	MusicClipMillis   []int64 `json:"musicClipMillis"`
	TimedUnlockMillis []int64 `json:"timedUnlockMillis"`
}

func (s constantsSchema) toDomain() (domain.GameConstants, error) {
	if len(s.MusicClipMillis) == 0 {
		return domain.GameConstants{}, errors.New("game constants missing music clip boundaries")
	}

	last := int64(0)
	for _, boundary := range s.MusicClipMillis {
		if boundary <= last {
			return domain.GameConstants{}, errors.New("music clip boundaries must increase monotonically")
		}
		last = boundary
	}

	return domain.GameConstants{
		MusicClipMillis:   s.MusicClipMillis,
		TimedUnlockMillis: s.TimedUnlockMillis,
	}, nil
}

type gameSchema struct {
	ID        domain.GameID   `json:"id"`
	StartedAt time.Time       `json:"startedAt"`
	IsDaily   bool            `json:"isDaily"`
	IsTimed   bool            `json:"isTimed"`
	Genre     *genreSchema    `json:"genre"`
	Guesses   []guessSchema   `json:"guesses"`
	Won       *bool           `json:"won"`
	Track     *trackSchema    `json:"track"`
	Constants constantsSchema `json:"constants"`
}

func (s gameSchema) toDomain() (domain.Game, error) {
	constants, err := s.Constants.toDomain()
	if err != nil {
		return domain.Game{}, err
	}

	if len(s.Guesses) > constants.MaxGuesses() {
		return domain.Game{}, errors.New("game has more guesses than guess slots")
	}

	game := domain.Game{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		IsDaily:   s.IsDaily,
		IsTimed:   s.IsTimed,
		Won:       s.Won,
		Constants: constants,
	}
	if s.Genre != nil {
		genre := s.Genre.toDomain()
		game.Genre = &genre
	}
	if s.Track != nil {
		track := s.Track.toDomain()
		game.Track = &track
	}
	for _, guess := range s.Guesses {
		converted := domain.Guess{GuessedAt: guess.GuessedAt}
		if guess.Track != nil {
			track := guess.Track.toDomain()
			converted.Track = &track
		}
		game.Guesses = append(game.Guesses, converted)
	}

	return game, nil
}

type recentGamesSchema struct {
	Daily   *domain.GameID `json:"daily"`
	Ongoing *domain.GameID `json:"ongoing"`
}

func (s recentGamesSchema) toDomain() domain.RecentGames {
	return domain.RecentGames(s)
}

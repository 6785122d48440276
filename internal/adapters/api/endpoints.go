package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/humdle/humdle-cli/internal/domain"
)

// CreateAccount provisions a fresh anonymous account and returns its
// login secret. Unauthenticated by design: it is part of the login path.
func (c *Client) CreateAccount(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/users/me", requestOptions{unauthenticated: true})
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}

	var payload struct {
		Login string `json:"login"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	if payload.Login == "" {
		return "", errors.New("create account: response missing login secret")
	}

	return payload.Login, nil
}

// CreateSession exchanges a login secret for a session token.
// Unauthenticated by design, so logging in cannot recurse into itself.
func (c *Client) CreateSession(ctx context.Context, loginSecret string) (string, error) {
	body := struct {
		Login string `json:"login"`
	}{Login: loginSecret}

	resp, err := c.do(ctx, http.MethodPost, "/sessions", requestOptions{body: body, unauthenticated: true})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	var payload struct {
		Session string `json:"session"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if payload.Session == "" {
		return "", errors.New("create session: response missing session token")
	}

	return payload.Session, nil
}

func (c *Client) GetAccount(ctx context.Context) (domain.Account, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users/me", requestOptions{})
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	var payload accountSchema
	if err := decodeJSON(resp, &payload); err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return payload.toDomain(), nil
}

// UpdateAccount changes the display name. A nil displayName leaves it
// untouched server-side.
func (c *Client) UpdateAccount(ctx context.Context, displayName *string) (domain.Account, error) {
	body := struct {
		DisplayName *string `json:"display_name"`
	}{DisplayName: displayName}

	resp, err := c.do(ctx, http.MethodPatch, "/users/me", requestOptions{body: body})
	if err != nil {
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	var payload accountSchema
	if err := decodeJSON(resp, &payload); err != nil {
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/users/me", requestOptions{}); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

// RecentGames returns the IDs of today's daily game and the ongoing
// game, either of which may be absent.
func (c *Client) RecentGames(ctx context.Context) (domain.RecentGames, error) {
	resp, err := c.do(ctx, http.MethodGet, "/games", requestOptions{})
	if err != nil {
		return domain.RecentGames{}, fmt.Errorf("get recent games: %w", err)
	}

	var payload recentGamesSchema
	if err := decodeJSON(resp, &payload); err != nil {
		return domain.RecentGames{}, fmt.Errorf("get recent games: %w", err)
	}

	return payload.toDomain(), nil
}

// NewGame starts a game. genreID restricts the track pick; nil selects
// from any genre. Daily games cannot be timed or restricted to a genre.
func (c *Client) NewGame(ctx context.Context, genreID *domain.GenreID, daily, timed bool) (domain.Game, error) {
	body := struct {
		GenreID *domain.GenreID `json:"genre_id"`
		Daily   bool            `json:"daily"`
		Timed   bool            `json:"timed"`
	}{GenreID: genreID, Daily: daily, Timed: timed}

	resp, err := c.do(ctx, http.MethodPost, "/games", requestOptions{body: body})
	if err != nil {
		return domain.Game{}, fmt.Errorf("new game: %w", err)
	}

	return decodeGame(resp, "new game")
}

func (c *Client) GetGame(ctx context.Context, id domain.GameID) (domain.Game, error) {
	resp, err := c.do(ctx, http.MethodGet, gamePath(id), requestOptions{})
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game %d: %w", id, err)
	}

	return decodeGame(resp, "get game")
}

// NewGuess submits a guess for the given game. A nil trackID skips the
// guess slot.
func (c *Client) NewGuess(ctx context.Context, id domain.GameID, trackID *domain.TrackID) (domain.Game, error) {
	body := struct {
		TrackID *domain.TrackID `json:"track_id"`
	}{TrackID: trackID}

	resp, err := c.do(ctx, http.MethodPost, gamePath(id)+"/guesses", requestOptions{body: body})
	if err != nil {
		return domain.Game{}, fmt.Errorf("new guess: %w", err)
	}

	return decodeGame(resp, "new guess")
}

// ResignGame forfeits the given game, ending it as a loss.
func (c *Client) ResignGame(ctx context.Context, id domain.GameID) (domain.Game, error) {
	resp, err := c.do(ctx, http.MethodPost, gamePath(id)+"/resign", requestOptions{})
	if err != nil {
		return domain.Game{}, fmt.Errorf("resign game: %w", err)
	}

	return decodeGame(resp, "resign game")
}

// GetClip fetches the unlocked portion of the game's track as WAV bytes.
// seekMillis skips into the clip; nil returns it from the start.
func (c *Client) GetClip(ctx context.Context, id domain.GameID, seekMillis *int64) ([]byte, error) {
	opts := requestOptions{maxBody: maxClipBytes}
	if seekMillis != nil {
		opts.query = url.Values{"seek": []string{strconv.FormatInt(*seekMillis, 10)}}
	}

	resp, err := c.do(ctx, http.MethodGet, gamePath(id)+"/clip", opts)
	if err != nil {
		return nil, fmt.Errorf("get clip: %w", err)
	}
	if len(resp.body) == 0 {
		return nil, errors.New("get clip: empty response")
	}

	return resp.body, nil
}

func (c *Client) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	opts := requestOptions{query: url.Values{"q": []string{query}}}

	resp, err := c.do(ctx, http.MethodGet, "/tracks", opts)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}

	var payload struct {
		Tracks []trackSchema `json:"tracks"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}

	tracks := make([]domain.Track, 0, len(payload.Tracks))
	for _, track := range payload.Tracks {
		tracks = append(tracks, track.toDomain())
	}

	return tracks, nil
}

func (c *Client) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	resp, err := c.do(ctx, http.MethodGet, "/genres", requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	var payload struct {
		Genres []genreSchema `json:"genres"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	genres := make([]domain.Genre, 0, len(payload.Genres))
	for _, genre := range payload.Genres {
		genres = append(genres, genre.toDomain())
	}

	return genres, nil
}

func gamePath(id domain.GameID) string {
	return "/games/" + strconv.FormatInt(int64(id), 10)
}

func decodeGame(resp response, op string) (domain.Game, error) {
	var payload gameSchema
	if err := decodeJSON(resp, &payload); err != nil {
		return domain.Game{}, fmt.Errorf("%s: %w", op, err)
	}

	game, err := payload.toDomain()
	if err != nil {
		return domain.Game{}, fmt.Errorf("%s: %w", op, err)
	}

	return game, nil
}

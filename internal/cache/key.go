package cache

import (
	"strconv"

	"github.com/humdle/humdle-cli/internal/domain"
)

type Resource string

const (
	ResourceAccount     Resource = "account"
	ResourceRecentGames Resource = "recent-games"
	ResourceGame        Resource = "game"
	ResourceClip        Resource = "clip"
	ResourceSearch      Resource = "search"
	ResourceGenres      Resource = "genres"
)

// Key identifies one cached server resource. Keys are structured tuples
// rather than strings so parameterized resources (a game ID, a search
// query) cannot collide.
type Key struct {
	Resource Resource
	GameID   domain.GameID
	Arg      string
}

func AccountKey() Key {
	return Key{Resource: ResourceAccount}
}

func RecentGamesKey() Key {
	return Key{Resource: ResourceRecentGames}
}

// ActiveGameKey aliases the user's ongoing game without knowing its ID.
func ActiveGameKey() Key {
	return Key{Resource: ResourceGame, Arg: "active"}
}

// DailyGameKey aliases today's daily game without knowing its ID.
func DailyGameKey() Key {
	return Key{Resource: ResourceGame, Arg: "daily"}
}

func GameKey(id domain.GameID) Key {
	return Key{Resource: ResourceGame, GameID: id}
}

// ClipKey embeds the unlocked-segment count, so submitting a guess moves
// consumers onto a new key and forces a clip fetch. That is how segment
// unlocks are detected without a push channel from the server. A seek
// offset addresses a clip served from that position.
func ClipKey(id domain.GameID, unlockedSegments int, seekMillis *int64) Key {
	arg := strconv.Itoa(unlockedSegments)
	if seekMillis != nil {
		arg += "@" + strconv.FormatInt(*seekMillis, 10)
	}

	return Key{Resource: ResourceClip, GameID: id, Arg: arg}
}

func SearchKey(query string) Key {
	return Key{Resource: ResourceSearch, Arg: query}
}

func GenresKey() Key {
	return Key{Resource: ResourceGenres}
}

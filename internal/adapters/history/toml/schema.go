package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int          `toml:"version"`
	Games   []gameSchema `toml:"games"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type gameSchema struct {
	ID         int64  `toml:"id"`
	StartedAt  string `toml:"started_at"`
	FinishedAt string `toml:"finished_at"`
	Won        bool   `toml:"won"`
	Guesses    int    `toml:"guesses"`
	Daily      bool   `toml:"daily,omitempty"`
	Timed      bool   `toml:"timed,omitempty"`
	Genre      string `toml:"genre,omitempty"`
	TrackTitle string `toml:"track_title,omitempty"`
	ArtistName string `toml:"artist_name,omitempty"`
}

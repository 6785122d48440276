package domain

type TrackID int64

type Track struct {
	ID         TrackID
	Title      string
	Link       string
	ArtistName string
	AlbumName  string
	AlbumCover string
}

type GenreID int64

type Genre struct {
	ID      GenreID
	Name    string
	Picture string
}

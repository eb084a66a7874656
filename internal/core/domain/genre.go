package domain

import "strings"

type Genre string

const (
	GenrePop        Genre = "Pop"
	GenreRock       Genre = "Rock"
	GenreHipHop     Genre = "Hip-Hop"
	GenreElectronic Genre = "Electronic"
	GenreRnB        Genre = "R&B"
	GenreJazz       Genre = "Jazz"
	GenreClassical  Genre = "Classical"
	GenreIndie      Genre = "Indie"
	GenreMetal      Genre = "Metal"
	GenreFolk       Genre = "Folk"
	GenreOther      Genre = "Other"
)

// Genres lists the labels accepted by the distribution backend.
var Genres = []Genre{
	GenrePop, GenreRock, GenreHipHop, GenreElectronic, GenreRnB, GenreJazz,
	GenreClassical, GenreIndie, GenreMetal, GenreFolk, GenreOther,
}

// ParseGenre matches a label case-insensitively against Genres.
func ParseGenre(label string) (Genre, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrMissingGenre
	}
	for _, g := range Genres {
		if strings.EqualFold(string(g), label) {
			return g, nil
		}
	}
	return "", ErrInvalidGenre
}

package domain

import "strings"

// Track is a single audio item within a release.
type Track struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	LyricsAuthor    string     `json:"lyricsAuthor,omitempty"`
	MusicAuthor     string     `json:"musicAuthor,omitempty"`
	Producer        string     `json:"producer,omitempty"`
	FeaturedArtists []string   `json:"featuredArtists"`
	ISRC            string     `json:"isrc,omitempty"`
	Explicit        bool       `json:"explicit"`
	Audio           *AudioFile `json:"audio,omitempty"`
	Lyrics          string     `json:"lyrics,omitempty"`
	Artist          string     `json:"artist,omitempty"` // overrides the release artist
}

func NewTrack(id string) Track {
	return Track{ID: id, FeaturedArtists: []string{}}
}

// TrackPatch is the closed set of edits a track accepts. Nil fields are left
// untouched; a non-nil FeaturedArtists replaces the whole list.
type TrackPatch struct {
	Title           *string  `json:"title,omitempty"`
	LyricsAuthor    *string  `json:"lyricsAuthor,omitempty"`
	MusicAuthor     *string  `json:"musicAuthor,omitempty"`
	Producer        *string  `json:"producer,omitempty"`
	FeaturedArtists []string `json:"featuredArtists,omitempty"`
	ISRC            *string  `json:"isrc,omitempty"`
	Explicit        *bool    `json:"explicit,omitempty"`
	Lyrics          *string  `json:"lyrics,omitempty"`
	Artist          *string  `json:"artist,omitempty"`
}

func (p TrackPatch) apply(t *Track) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.LyricsAuthor != nil {
		t.LyricsAuthor = *p.LyricsAuthor
	}
	if p.MusicAuthor != nil {
		t.MusicAuthor = *p.MusicAuthor
	}
	if p.Producer != nil {
		t.Producer = *p.Producer
	}
	if p.FeaturedArtists != nil {
		t.FeaturedArtists = append([]string{}, p.FeaturedArtists...)
	}
	if p.ISRC != nil {
		t.ISRC = strings.ToUpper(strings.TrimSpace(*p.ISRC))
	}
	if p.Explicit != nil {
		t.Explicit = *p.Explicit
	}
	if p.Lyrics != nil {
		t.Lyrics = *p.Lyrics
	}
	if p.Artist != nil {
		t.Artist = *p.Artist
	}
}

// AddFeaturedArtist appends a name; duplicates are kept in insertion order.
func (t *Track) AddFeaturedArtist(name string) {
	t.FeaturedArtists = append(t.FeaturedArtists, name)
}

func (t Track) clone() Track {
	c := t
	c.FeaturedArtists = append([]string{}, t.FeaturedArtists...)
	if t.Audio != nil {
		a := *t.Audio
		c.Audio = &a
	}
	return c
}

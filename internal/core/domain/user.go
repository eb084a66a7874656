package domain

import "strings"

// User is the artist owning a session. It is created by registration and not
// mutated afterwards.
type User struct {
	ID         string `json:"id"`
	ArtistName string `json:"artistName"`
	Email      string `json:"email"`
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", ErrInvalidTheme
}

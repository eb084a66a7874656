package domain

import "strings"

// Cover is a validated release artwork. DataURL carries the inline preview
// produced at upload time; URL is set for covers already hosted remotely.
type Cover struct {
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	MIME    string `json:"mime,omitempty"`
	DataURL string `json:"dataUrl,omitempty"`
	URL     string `json:"url,omitempty"`
}

// AudioFile is the metadata of an audio upload bound to a track.
type AudioFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIME     string `json:"mime,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// ValidateAudioName accepts only names ending in ".wav", in any letter case.
func ValidateAudioName(name string) error {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".wav") {
		return ErrInvalidAudioFormat
	}
	return nil
}

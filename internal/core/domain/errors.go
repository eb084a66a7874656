package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("domain: not found")
	ErrMissingTitle       = errors.New("domain: title is required")
	ErrMissingGenre       = errors.New("domain: genre is required")
	ErrInvalidGenre       = errors.New("domain: unknown genre")
	ErrTrackTitleRequired = errors.New("domain: every track needs a title")
	ErrMinimumOneTrack    = errors.New("domain: a release must keep at least one track")
	ErrInvalidAudioFormat = errors.New("domain: invalid format, audio must be a .wav file")
	ErrEmptyFile          = errors.New("domain: file is empty")
	ErrInvalidImage       = errors.New("domain: cover is not a decodable image")
	ErrCoverNotSquare     = errors.New("domain: cover must be square")
	ErrCoverSize          = errors.New("domain: cover has the wrong size")
	ErrCoverRequired      = errors.New("domain: a validated cover is required")
	ErrAudioLimitExceeded = errors.New("domain: audio file limit exceeded")
	ErrNotEditable        = errors.New("domain: only active drafts can be edited")
	ErrInvalidTransition  = errors.New("domain: invalid status transition")
	ErrAlreadyDeleted     = errors.New("domain: already deleted")
	ErrNotDeleted         = errors.New("domain: not deleted")
	ErrMissingName        = errors.New("domain: missing name")
	ErrNoLinks            = errors.New("domain: no links")
	ErrSlugTaken          = errors.New("domain: slug already taken")
	ErrInvalidTheme       = errors.New("domain: unknown theme")
)

// AudioLimitError reports how many audio files a release already holds when
// an upload would push it past the limit.
type AudioLimitError struct {
	Current  int
	Incoming int
	Limit    int
}

func (e AudioLimitError) Error() string {
	return fmt.Sprintf("audio file limit exceeded: release has %d of %d files, %d more requested", e.Current, e.Limit, e.Incoming)
}

func (e AudioLimitError) Is(target error) bool {
	return target == ErrAudioLimitExceeded
}

// CoverSizeError is returned in strict mode when a square cover is not
// exactly Want x Want pixels.
type CoverSizeError struct {
	Width  int
	Height int
	Want   int
}

func (e CoverSizeError) Error() string {
	return fmt.Sprintf("cover must be exactly %dx%d, got %dx%d", e.Want, e.Want, e.Width, e.Height)
}

func (e CoverSizeError) Is(target error) bool {
	return target == ErrCoverSize
}

package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"github.com/olprod/backend/internal/core/domain"
)

const (
	DefaultCoverSize  = 3000
	DefaultAudioLimit = 10
	defaultCoverBytes = 20 << 20
	audioSniffLen     = 3072
)

// CoverValidator checks release artwork. Covers must be square; in strict
// mode they must also be exactly Size x Size pixels.
type CoverValidator struct {
	Strict   bool
	Size     int
	MaxBytes int64
}

// Validate decodes the image header and returns the accepted cover with an
// inline data-URL preview.
func (v CoverValidator) Validate(r io.Reader) (domain.Cover, error) {
	limit := v.MaxBytes
	if limit <= 0 {
		limit = defaultCoverBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return domain.Cover{}, fmt.Errorf("read cover: %w", err)
	}
	if len(data) == 0 {
		return domain.Cover{}, domain.ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return domain.Cover{}, fmt.Errorf("cover larger than %d bytes: %w", limit, domain.ErrInvalidImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Cover{}, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width != cfg.Height {
		return domain.Cover{}, domain.ErrCoverNotSquare
	}
	size := v.Size
	if size <= 0 {
		size = DefaultCoverSize
	}
	if v.Strict && cfg.Width != size {
		return domain.Cover{}, domain.CoverSizeError{Width: cfg.Width, Height: cfg.Height, Want: size}
	}

	mt := mimetype.Detect(data).String()
	return domain.Cover{
		Width:   cfg.Width,
		Height:  cfg.Height,
		MIME:    mt,
		DataURL: "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// AudioUpload is one incoming audio file. Body is streamed, never buffered
// whole.
type AudioUpload struct {
	Name string
	Body io.Reader
}

// AudioValidator checks audio uploads and the per-release file cap.
type AudioValidator struct {
	Limit int
}

func (v AudioValidator) limit() int {
	if v.Limit <= 0 {
		return DefaultAudioLimit
	}
	return v.Limit
}

// CheckLimit rejects adding incoming files to a release already holding
// current ones when the total would pass the limit.
func (v AudioValidator) CheckLimit(current, incoming int) error {
	if current+incoming > v.limit() {
		return domain.AudioLimitError{Current: current, Incoming: incoming, Limit: v.limit()}
	}
	return nil
}

// Inspect validates the file name and reads the body once to size, sniff
// and checksum it.
func (v AudioValidator) Inspect(up AudioUpload) (domain.AudioFile, error) {
	if err := domain.ValidateAudioName(up.Name); err != nil {
		return domain.AudioFile{}, err
	}
	if up.Body == nil {
		return domain.AudioFile{}, domain.ErrEmptyFile
	}

	h := sha256.New()
	head := make([]byte, audioSniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.AudioFile{}, fmt.Errorf("read audio: %w", err)
	}
	head = head[:n]
	h.Write(head)
	rest, err := io.Copy(h, up.Body)
	if err != nil {
		return domain.AudioFile{}, fmt.Errorf("read audio: %w", err)
	}
	size := int64(n) + rest
	if size == 0 {
		return domain.AudioFile{}, domain.ErrEmptyFile
	}

	return domain.AudioFile{
		Name:     up.Name,
		Size:     size,
		MIME:     mimetype.Detect(head).String(),
		Checksum: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

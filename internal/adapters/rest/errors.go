package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
	"github.com/olprod/backend/internal/core/services"
	"github.com/olprod/backend/internal/logger"
)

const (
	errCodeNotFound      = "NOT_FOUND"
	errCodeConnection    = "CONNECTION_ERROR"
	errCodeLimitExceeded = "LIMIT_EXCEEDED"
	errCodeCoverSize     = "COVER_SIZE"
	errCodeRejected      = "REJECTED"
	errCodeUnauthorized  = "UNAUTHORIZED"
	errCodeInvalidDate   = "INVALID_DATE"
	errCodeMissingFile   = "MISSING_FILE"
	errCodeInvalidUpload = "INVALID_UPLOAD"
	errCodeRateLimited   = "RATE_LIMITED"
	errCodeInternal      = "INTERNAL"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order with errors.Is.
var errorTable = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, errCodeNotFound},
	{domain.ErrMissingTitle, http.StatusBadRequest, "MISSING_TITLE"},
	{domain.ErrMissingGenre, http.StatusBadRequest, "MISSING_GENRE"},
	{domain.ErrInvalidGenre, http.StatusBadRequest, "INVALID_GENRE"},
	{domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
	{domain.ErrMissingName, http.StatusBadRequest, "MISSING_NAME"},
	{domain.ErrNoLinks, http.StatusBadRequest, "NO_LINKS"},
	{domain.ErrInvalidTheme, http.StatusBadRequest, "INVALID_THEME"},
	{services.ErrMissingCredentials, http.StatusBadRequest, "MISSING_CREDENTIALS"},
	{services.ErrMissingArtistName, http.StatusBadRequest, "MISSING_ARTIST_NAME"},
	{services.ErrEmptyMessage, http.StatusBadRequest, "EMPTY_MESSAGE"},
	{domain.ErrTrackTitleRequired, http.StatusUnprocessableEntity, "TRACK_TITLE_REQUIRED"},
	{domain.ErrMinimumOneTrack, http.StatusUnprocessableEntity, "MINIMUM_ONE_TRACK"},
	{domain.ErrInvalidAudioFormat, http.StatusUnprocessableEntity, "INVALID_FORMAT"},
	{domain.ErrInvalidImage, http.StatusUnprocessableEntity, "INVALID_IMAGE"},
	{domain.ErrCoverNotSquare, http.StatusUnprocessableEntity, "COVER_NOT_SQUARE"},
	{domain.ErrCoverSize, http.StatusUnprocessableEntity, errCodeCoverSize},
	{domain.ErrCoverRequired, http.StatusUnprocessableEntity, "COVER_REQUIRED"},
	{domain.ErrAudioLimitExceeded, http.StatusUnprocessableEntity, errCodeLimitExceeded},
	{domain.ErrNotEditable, http.StatusConflict, "NOT_EDITABLE"},
	{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrAlreadyDeleted, http.StatusConflict, "ALREADY_DELETED"},
	{domain.ErrNotDeleted, http.StatusConflict, "NOT_DELETED"},
	{domain.ErrSlugTaken, http.StatusConflict, "SLUG_TAKEN"},
	{services.ErrInvalidToken, http.StatusUnauthorized, errCodeUnauthorized},
	{ports.ErrRejected, http.StatusBadRequest, errCodeRejected},
	{ports.ErrRemoteUnavailable, http.StatusBadGateway, errCodeConnection},
}

// writeServiceError maps a core error onto a status, a machine code and a
// message fit for the artist.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorTable {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := errorResponse{Error: publicMessage(m.target), Code: m.code}

		var limitErr domain.AudioLimitError
		var sizeErr domain.CoverSizeError
		var rejected *ports.RejectedError
		switch {
		case errors.As(err, &limitErr):
			resp.Error = limitErr.Error()
			resp.Details = map[string]any{"current": limitErr.Current, "incoming": limitErr.Incoming, "limit": limitErr.Limit}
		case errors.As(err, &sizeErr):
			resp.Error = sizeErr.Error()
			resp.Details = map[string]any{"width": sizeErr.Width, "height": sizeErr.Height, "required": sizeErr.Want}
		case errors.As(err, &rejected) && rejected.Message != "":
			resp.Error = rejected.Message
		}

		if m.status == http.StatusBadGateway {
			logger.Error(logger.EventRemoteError, "remote backend failure", logger.Fields("error", err))
		} else if m.status < http.StatusInternalServerError {
			logger.Warn(logger.EventValidationFailure, "request rejected", logger.Fields("code", m.code, "error", err))
		}
		writeJSON(w, m.status, resp)
		return
	}

	logger.Error(logger.EventGeneral, "unhandled service error", logger.Fields("error", err))
	writeErrorWithCode(w, http.StatusInternalServerError, "internal error", errCodeInternal)
}

func publicMessage(target error) string {
	msg := target.Error()
	for _, prefix := range []string{"domain: ", "service: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}

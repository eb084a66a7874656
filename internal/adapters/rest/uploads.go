package rest

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/services"
)

// parts above this size are spooled to temporary files by the multipart
// reader.
const multipartMemory = 32 << 20

// parseMultipart limits and parses a multipart body, writing the error
// response itself when it returns false. Callers must RemoveAll the form.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return false
		}
		writeErrorWithCode(w, http.StatusBadRequest, "expected a multipart/form-data body", errCodeInvalidUpload)
		return false
	}
	return true
}

// AttachAudio handles PUT /releases/{id}/tracks/{trackId}/audio with a
// single "file" part.
func (h *Handler) AttachAudio(w http.ResponseWriter, r *http.Request, user domain.User) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "file is required", errCodeMissingFile)
		return
	}
	defer file.Close()

	track, err := h.svc.Releases.AttachAudio(r.Context(), user.ID, r.PathValue("id"), r.PathValue("trackId"), services.AudioUpload{
		Name: header.Filename,
		Body: file,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// UploadAudio handles POST /releases/{id}/audio with one or more "files"
// parts, one track per file.
func (h *Handler) UploadAudio(w http.ResponseWriter, r *http.Request, user domain.User) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeErrorWithCode(w, http.StatusBadRequest, "at least one file is required", errCodeMissingFile)
		return
	}

	uploads := make([]services.AudioUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeErrorWithCode(w, http.StatusBadRequest, "cannot read "+fh.Filename, errCodeInvalidUpload)
			closeAll(uploads)
			return
		}
		uploads = append(uploads, services.AudioUpload{Name: fh.Filename, Body: f})
	}
	defer closeAll(uploads)

	release, err := h.svc.Releases.UploadAudio(r.Context(), user.ID, r.PathValue("id"), uploads)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// AttachCover handles PUT /releases/{id}/cover with a single "file" part.
func (h *Handler) AttachCover(w http.ResponseWriter, r *http.Request, user domain.User) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "file is required", errCodeMissingFile)
		return
	}
	defer file.Close()

	release, err := h.svc.Releases.AttachCover(r.Context(), user.ID, r.PathValue("id"), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func closeAll(uploads []services.AudioUpload) {
	for _, u := range uploads {
		if f, ok := u.Body.(multipart.File); ok {
			f.Close()
		}
	}
}

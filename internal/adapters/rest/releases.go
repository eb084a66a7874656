package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/services"
)

type releasesResponse struct {
	Releases []domain.Release `json:"releases"`
}

type updateReleaseRequest struct {
	Title       *string `json:"title,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
	UPC         *string `json:"upc,omitempty"`
}

// ListReleases handles GET /releases. It refreshes the catalog from the
// releases backend and returns the active releases with their totals.
func (h *Handler) ListReleases(w http.ResponseWriter, r *http.Request, user domain.User) {
	overview, err := h.svc.Releases.Load(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// ListTrash handles GET /releases/trash
func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request, user domain.User) {
	writeJSON(w, http.StatusOK, releasesResponse{Releases: h.svc.Releases.Trash(user.ID)})
}

// CreateRelease handles POST /releases
func (h *Handler) CreateRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req services.DraftInput
	if !decodeJSON(w, r, &req) {
		return
	}
	release, err := h.svc.Releases.CreateDraft(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/releases/"+release.ID)
	writeJSON(w, http.StatusCreated, release)
}

// GetRelease handles GET /releases/{id}
func (h *Handler) GetRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	release, err := h.svc.Releases.Get(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// UpdateRelease handles PATCH /releases/{id}
func (h *Handler) UpdateRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req updateReleaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var patch domain.ReleasePatch
	patch.Title = req.Title
	patch.UPC = req.UPC
	if req.Genre != nil {
		g, err := domain.ParseGenre(*req.Genre)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		patch.Genre = &g
	}
	if req.ReleaseDate != nil {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(*req.ReleaseDate))
		if err != nil {
			writeErrorWithCode(w, http.StatusBadRequest, "releaseDate must be YYYY-MM-DD", errCodeInvalidDate)
			return
		}
		patch.ReleaseDate = &d
	}

	release, err := h.svc.Releases.UpdateRelease(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// AddTrack handles POST /releases/{id}/tracks
func (h *Handler) AddTrack(w http.ResponseWriter, r *http.Request, user domain.User) {
	track, err := h.svc.Releases.AddTrack(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

// UpdateTrack handles PATCH /releases/{id}/tracks/{trackId}
func (h *Handler) UpdateTrack(w http.ResponseWriter, r *http.Request, user domain.User) {
	var patch domain.TrackPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	track, err := h.svc.Releases.UpdateTrack(r.Context(), user.ID, r.PathValue("id"), r.PathValue("trackId"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// RemoveTrack handles DELETE /releases/{id}/tracks/{trackId}
func (h *Handler) RemoveTrack(w http.ResponseWriter, r *http.Request, user domain.User) {
	release, err := h.svc.Releases.RemoveTrack(r.Context(), user.ID, r.PathValue("id"), r.PathValue("trackId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// SubmitRelease handles POST /releases/{id}/submit
func (h *Handler) SubmitRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	release, err := h.svc.Releases.SubmitForModeration(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// SoftDeleteRelease handles POST /releases/{id}/delete
func (h *Handler) SoftDeleteRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	release, err := h.svc.Releases.SoftDelete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// RestoreRelease handles POST /releases/{id}/restore
func (h *Handler) RestoreRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	release, err := h.svc.Releases.Restore(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// PurgeRelease handles DELETE /releases/{id}. Only releases already in the
// trash can be purged.
func (h *Handler) PurgeRelease(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := h.svc.Releases.Purge(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

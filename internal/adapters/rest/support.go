package rest

import (
	"net/http"

	"github.com/olprod/backend/internal/core/domain"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type themeBody struct {
	Theme string `json:"theme"`
}

// Chat handles POST /chat. The assistant always answers; when the model is
// unavailable the canned reply is returned.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.svc.Support.Ask(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// GetTheme handles GET /preferences/theme
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request, user domain.User) {
	theme, err := h.svc.Preferences.Theme(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: string(theme)})
}

// SetTheme handles PUT /preferences/theme
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req themeBody
	if !decodeJSON(w, r, &req) {
		return
	}
	theme, err := h.svc.Preferences.SetTheme(r.Context(), user.ID, req.Theme)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: string(theme)})
}

// GetDraft handles GET /draft
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request, user domain.User) {
	draft, err := h.svc.Releases.Draft(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// DiscardDraft handles DELETE /draft
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := h.svc.Releases.DiscardDraft(r.Context(), user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

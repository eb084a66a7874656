package rest

import (
	"net/http"

	"github.com/olprod/backend/internal/logger"
)

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ArtistName string `json:"artistName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.Sessions.Register(r.Context(), req.Email, req.Password, req.ArtistName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logger.Info(logger.EventLoginSuccess, "artist registered", logger.Fields("user_id", sess.User.ID, "email", sess.User.Email))
	writeJSON(w, http.StatusCreated, sess)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Security(logger.EventLoginFailure, "login failed", logger.Fields("email", req.Email, "ip", h.clientIP(r), "error", err))
		writeServiceError(w, err)
		return
	}
	logger.Info(logger.EventLoginSuccess, "artist logged in", logger.Fields("user_id", sess.User.ID, "ip", h.clientIP(r)))
	writeJSON(w, http.StatusOK, sess)
}

// ResetPassword handles POST /auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Sessions.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

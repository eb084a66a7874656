package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/olprod/backend/internal/core/services"
)

const defaultMaxUploadBytes = 512 << 20

// Services groups the core services the HTTP surface drives.
type Services struct {
	Releases    *services.ReleaseManager
	SmartLinks  *services.SmartLinkManager
	Sessions    *services.Sessions
	Support     *services.Support
	Preferences *services.Preferences
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	// RateLimit is the sustained requests per second allowed per client;
	// zero disables limiting.
	RateLimit      float64
	RateBurst      int
	MaxUploadBytes int64

	// TrustProxy keys clients by X-Forwarded-For; enable only behind a
	// proxy that overwrites the header.
	TrustProxy bool

	Ready    map[string]ReadyCheck
	Optional map[string]ReadyCheck // reported by /ready without failing it
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc        Services
	router     *http.ServeMux
	limiter    *ipLimiter
	maxUpload  int64
	trustProxy bool
	ready      map[string]ReadyCheck
	optional   map[string]ReadyCheck
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc Services, opts Options) *Handler {
	h := &Handler{
		svc:        svc,
		router:     http.NewServeMux(),
		maxUpload:  opts.MaxUploadBytes,
		trustProxy: opts.TrustProxy,
		ready:      opts.Ready,
		optional:   opts.Optional,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUploadBytes
	}
	if opts.RateLimit > 0 {
		h.limiter = newIPLimiter(opts.RateLimit, opts.RateBurst, 10*time.Minute)
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.allow(w, r) {
		return
	}
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Probes
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /ready", h.ReadyCheck)

	// Public
	h.router.HandleFunc("POST /auth/register", h.Register)
	h.router.HandleFunc("POST /auth/login", h.Login)
	h.router.HandleFunc("POST /auth/reset-password", h.ResetPassword)
	h.router.HandleFunc("POST /chat", h.Chat)
	h.router.HandleFunc("GET /smartlink/{slug}", h.ViewSmartLink)

	// Releases
	h.router.HandleFunc("GET /releases", h.auth(h.ListReleases))
	h.router.HandleFunc("GET /releases/trash", h.auth(h.ListTrash))
	h.router.HandleFunc("POST /releases", h.auth(h.CreateRelease))
	h.router.HandleFunc("GET /releases/{id}", h.auth(h.GetRelease))
	h.router.HandleFunc("PATCH /releases/{id}", h.auth(h.UpdateRelease))
	h.router.HandleFunc("DELETE /releases/{id}", h.auth(h.PurgeRelease))
	h.router.HandleFunc("POST /releases/{id}/tracks", h.auth(h.AddTrack))
	h.router.HandleFunc("PATCH /releases/{id}/tracks/{trackId}", h.auth(h.UpdateTrack))
	h.router.HandleFunc("DELETE /releases/{id}/tracks/{trackId}", h.auth(h.RemoveTrack))
	h.router.HandleFunc("PUT /releases/{id}/tracks/{trackId}/audio", h.auth(h.AttachAudio))
	h.router.HandleFunc("POST /releases/{id}/audio", h.auth(h.UploadAudio))
	h.router.HandleFunc("PUT /releases/{id}/cover", h.auth(h.AttachCover))
	h.router.HandleFunc("POST /releases/{id}/submit", h.auth(h.SubmitRelease))
	h.router.HandleFunc("POST /releases/{id}/delete", h.auth(h.SoftDeleteRelease))
	h.router.HandleFunc("POST /releases/{id}/restore", h.auth(h.RestoreRelease))

	// Smart links
	h.router.HandleFunc("GET /smartlinks", h.auth(h.ListSmartLinks))
	h.router.HandleFunc("GET /smartlinks/trash", h.auth(h.ListSmartLinkTrash))
	h.router.HandleFunc("POST /smartlinks", h.auth(h.CreateSmartLink))
	h.router.HandleFunc("POST /smartlinks/{id}/delete", h.auth(h.SoftDeleteSmartLink))
	h.router.HandleFunc("POST /smartlinks/{id}/restore", h.auth(h.RestoreSmartLink))
	h.router.HandleFunc("DELETE /smartlinks/{id}", h.auth(h.PurgeSmartLink))

	// Per-artist settings
	h.router.HandleFunc("GET /preferences/theme", h.auth(h.GetTheme))
	h.router.HandleFunc("PUT /preferences/theme", h.auth(h.SetTheme))
	h.router.HandleFunc("GET /draft", h.auth(h.GetDraft))
	h.router.HandleFunc("DELETE /draft", h.auth(h.DiscardDraft))
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "OLPROD is live"})
}

// ReadyCheck runs every dependency probe and reports 503 if a required one
// fails. A failing optional probe is reported as degraded.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.ready)+len(h.optional))
	for name, check := range h.ready {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	for name, check := range h.optional {
		if err := check(ctx); err != nil {
			checks[name] = "degraded: " + err.Error()
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

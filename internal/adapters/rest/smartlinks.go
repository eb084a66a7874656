package rest

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/services"
	"github.com/olprod/backend/internal/logger"
)

type smartLinksResponse struct {
	SmartLinks []domain.SmartLink `json:"smartLinks"`
}

type smartLinkResponse struct {
	SmartLink domain.SmartLink `json:"smartLink"`
	ShareURL  string           `json:"shareUrl"`
}

var smartLinkPage = template.Must(template.New("smartlink").Funcs(template.FuncMap{"coverSrc": coverSrc}).Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if .Found}}
<title>{{.Link.ReleaseName}} - {{.Link.ArtistName}}</title>
{{- else}}
<title>OLPROD</title>
{{- end}}
</head>
<body>
{{- if .Found}}
<main>
{{- with coverSrc .Link.CoverURL}}
<img src="{{.}}" alt="{{$.Link.ReleaseName}}" width="300" height="300">
{{- end}}
<h1>{{.Link.ReleaseName}}</h1>
<h2>{{.Link.ArtistName}}</h2>
<ul>
{{- range .Link.Platforms}}
<li><a href="{{.URL}}" rel="noopener" target="_blank">{{.Name}}</a></li>
{{- end}}
</ul>
</main>
{{- else}}
<main><h1>smart link not found</h1></main>
{{- end}}
</body>
</html>
`))

type smartLinkView struct {
	Found bool
	Link  domain.SmartLink
}

// ListSmartLinks handles GET /smartlinks
func (h *Handler) ListSmartLinks(w http.ResponseWriter, r *http.Request, user domain.User) {
	links, err := h.svc.SmartLinks.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, smartLinksResponse{SmartLinks: links})
}

// ListSmartLinkTrash handles GET /smartlinks/trash
func (h *Handler) ListSmartLinkTrash(w http.ResponseWriter, r *http.Request, user domain.User) {
	links, err := h.svc.SmartLinks.Trash(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, smartLinksResponse{SmartLinks: links})
}

// CreateSmartLink handles POST /smartlinks
func (h *Handler) CreateSmartLink(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req services.SmartLinkInput
	if !decodeJSON(w, r, &req) {
		return
	}
	link, shareURL, err := h.svc.SmartLinks.Create(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, smartLinkResponse{SmartLink: link, ShareURL: shareURL})
}

// SoftDeleteSmartLink handles POST /smartlinks/{id}/delete
func (h *Handler) SoftDeleteSmartLink(w http.ResponseWriter, r *http.Request, user domain.User) {
	link, err := h.svc.SmartLinks.SoftDelete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// RestoreSmartLink handles POST /smartlinks/{id}/restore
func (h *Handler) RestoreSmartLink(w http.ResponseWriter, r *http.Request, user domain.User) {
	link, err := h.svc.SmartLinks.Restore(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// PurgeSmartLink handles DELETE /smartlinks/{id}
func (h *Handler) PurgeSmartLink(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := h.svc.SmartLinks.Purge(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ViewSmartLink handles the public GET /smartlink/{slug}. Browsers get an
// HTML page, everything else JSON.
func (h *Handler) ViewSmartLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.SmartLinks.Resolve(r.Context(), r.PathValue("slug"))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeServiceError(w, err)
		return
	}
	found := err == nil

	if !wantsHTML(r) {
		if !found {
			writeErrorWithCode(w, http.StatusNotFound, "smart link not found", errCodeNotFound)
			return
		}
		writeJSON(w, http.StatusOK, link)
		return
	}

	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := smartLinkPage.Execute(w, smartLinkView{Found: found, Link: link}); err != nil {
		logger.Error(logger.EventSmartLink, "render smart link page", logger.Fields("slug", link.Slug, "error", err))
	}
}

// coverSrc admits http(s) URLs and inline raster images. html/template
// would otherwise rewrite data: URLs to #ZgotmplZ.
func coverSrc(raw string) template.URL {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return template.URL(u)
	case strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg"):
		return template.URL(u)
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

package catalog

import (
	"errors"
	"net/http"
	"strings"

	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Index handles GET /v1/
// @Summary Home page counters
// @Description Counts of books, copies, authors and the caller's visit count
// @Tags catalog
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/ [get]
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), httpx.VisitsFrom(r))
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

type nameReq struct {
	Name string `json:"name" validate:"required,max=200"`
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return "", false
	}
	req.Name = strings.TrimSpace(req.Name)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return "", false
	}
	return req.Name, true
}

func (h *HTTPHandler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrDuplicate) {
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Name already exists", nil)
		return
	}
	httpx.InternalError(w, r)
}

func (h *HTTPHandler) writeDeleteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.NotFound(w, r, "Not found")
		return
	}
	httpx.InternalError(w, r)
}

// ListGenres handles GET /v1/genres
func (h *HTTPHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.ListGenres(r.Context())
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, genres, nil)
}

// CreateGenre handles POST /v1/genres
func (h *HTTPHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	g, err := h.svc.CreateGenre(r.Context(), name)
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, g)
}

// DeleteGenre handles DELETE /v1/genres/{id}
func (h *HTTPHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Genre not found")
		return
	}
	if err := h.svc.DeleteGenre(r.Context(), id); err != nil {
		h.writeDeleteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// ListLanguages handles GET /v1/languages
func (h *HTTPHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.svc.ListLanguages(r.Context())
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, languages, nil)
}

// CreateLanguage handles POST /v1/languages
func (h *HTTPHandler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	l, err := h.svc.CreateLanguage(r.Context(), name)
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, l)
}

// DeleteLanguage handles DELETE /v1/languages/{id}
func (h *HTTPHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Language not found")
		return
	}
	if err := h.svc.DeleteLanguage(r.Context(), id); err != nil {
		h.writeDeleteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

package author

import (
	"errors"
	"net/http"
	"strings"

	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
)

const listPageSize = 3

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type authorReq struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth"`
	DateOfDeath string `json:"date_of_death"`
}

// toAuthor parses the request dates; details are nil on success.
func (req authorReq) toAuthor() (catalog.Author, []httpx.ErrorDetail) {
	a := catalog.Author{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	var details []httpx.ErrorDetail
	var err error
	if a.DateOfBirth, err = catalog.ParseOptionalDate(req.DateOfBirth); err != nil {
		details = append(details, httpx.ErrorDetail{Field: "date_of_birth", Code: "invalid", Message: "Enter a valid date"})
	}
	if a.DateOfDeath, err = catalog.ParseOptionalDate(req.DateOfDeath); err != nil {
		details = append(details, httpx.ErrorDetail{Field: "date_of_death", Code: "invalid", Message: "Enter a valid date"})
	}
	return a, details
}

func decodeAuthor(w http.ResponseWriter, r *http.Request) (catalog.Author, bool) {
	var req authorReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return catalog.Author{}, false
	}
	details := httpx.ValidateStruct(req)
	a, dateDetails := req.toAuthor()
	details = append(details, dateDetails...)
	if len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return catalog.Author{}, false
	}
	return a, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Author not found")
	case errors.Is(err, ErrDeathBeforeBirth):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{
			Field:   "date_of_death",
			Code:    "before_birth",
			Message: "Date of death must not be before date of birth",
		}})
	default:
		httpx.InternalError(w, r)
	}
}

// List handles GET /v1/authors
// @Summary List authors
// @Tags authors
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/authors [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, listPageSize)
	authors, total, err := h.svc.List(r.Context(), Query{Limit: page.Limit(), Offset: page.Offset()})
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	if authors == nil {
		authors = []catalog.Author{}
	}
	httpx.JSONSuccess(w, r, authors, page.Meta(total))
}

// Get handles GET /v1/authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Author not found")
		return
	}
	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, detail, nil)
}

// Create handles POST /v1/authors
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := decodeAuthor(w, r)
	if !ok {
		return
	}
	created, err := h.svc.Create(r.Context(), a)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, created)
}

// Update handles PUT /v1/authors/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Author not found")
		return
	}
	a, ok := decodeAuthor(w, r)
	if !ok {
		return
	}
	a.ID = id
	updated, err := h.svc.Update(r.Context(), a)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, updated, nil)
}

// Delete handles DELETE /v1/authors/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Author not found")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

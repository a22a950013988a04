package book

import (
	"errors"
	"net/http"

	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
)

const listPageSize = 3

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/books
// @Summary List books
// @Description Paginated book list, optionally filtered by title
// @Tags books
// @Produce json
// @Param title query string false "Title contains"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, listPageSize)
	books, total, err := h.service.List(r.Context(), Query{
		Title:  r.URL.Query().Get("title"),
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	if books == nil {
		books = []catalog.Book{}
	}
	httpx.JSONSuccess(w, r, books, page.Meta(total))
}

// Get handles GET /v1/books/{id}
// @Summary Get book
// @Description Book with author, genres, language and copies
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, detail, nil)
}

type bookReq struct {
	Title      string  `json:"title" validate:"required,max=200"`
	AuthorID   *int64  `json:"author_id" validate:"omitempty,gt=0"`
	Summary    string  `json:"summary" validate:"required,max=1000"`
	ISBN       string  `json:"isbn" validate:"required,isbn"`
	GenreIDs   []int64 `json:"genre_ids" validate:"dive,gt=0"`
	LanguageID *int64  `json:"language_id" validate:"omitempty,gt=0"`
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	var req bookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return Draft{}, false
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return Draft{}, false
	}
	return Draft{
		Title:      req.Title,
		AuthorID:   req.AuthorID,
		Summary:    req.Summary,
		ISBN:       req.ISBN,
		GenreIDs:   req.GenreIDs,
		LanguageID: req.LanguageID,
	}, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "ISBN already exists", nil)
	case errors.Is(err, ErrInvalidRef):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{
			Code:    "invalid_reference",
			Message: "Author, genre or language does not exist",
		}})
	default:
		httpx.InternalError(w, r)
	}
}

// Create handles POST /v1/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	b, err := h.service.Create(r.Context(), d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Update handles PUT /v1/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	b, err := h.service.Update(r.Context(), id, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

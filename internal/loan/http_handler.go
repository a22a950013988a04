package loan

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
)

const (
	minePageSize     = 2
	borrowedPageSize = 3
	adminPageSize    = 20
)

type HTTPHandler struct {
	svc     *Service
	filters []string
}

// NewHTTPHandler builds the loan handler. filters names the query parameters
// the operator listing honours; anything else is ignored.
func NewHTTPHandler(svc *Service, filters []string) *HTTPHandler {
	return &HTTPHandler{svc: svc, filters: filters}
}

type renewalView struct {
	Instance    Loan   `json:"book_instance"`
	RenewalDate string `json:"renewal_date"`
	State       string `json:"state"`
}

func (h *HTTPHandler) view(form RenewalForm) renewalView {
	return renewalView{
		Instance:    present(form.Instance, h.svc.Today()),
		RenewalDate: catalog.FormatDate(form.RenewalDate),
		State:       form.State.String(),
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		httpx.Unauthorized(w, r)
	case errors.Is(err, ErrForbidden):
		httpx.Forbidden(w, r)
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book instance not found")
	default:
		httpx.InternalError(w, r)
	}
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

// renewalTarget resolves the path id for the renewal routes. A malformed id
// is answered as not found, but only once the caller has passed the
// capability check.
func (h *HTTPHandler) renewalTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if id, ok := pathID(r); ok {
		return id, true
	}
	if err := h.svc.authorizeRenewal(r.Context(), httpx.PrincipalFrom(r)); err != nil {
		h.writeError(w, r, err)
		return uuid.Nil, false
	}
	h.svc.outcomes.RenewalOutcome(OutcomeNotFound)
	httpx.NotFound(w, r, "Book instance not found")
	return uuid.Nil, false
}

// RenewForm handles GET /v1/bookinstances/{id}/renew
// @Summary Open a renewal
// @Description Returns the instance and the proposed renewal date (today + 3 weeks)
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path string true "Book instance id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/bookinstances/{id}/renew [get]
func (h *HTTPHandler) RenewForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.renewalTarget(w, r)
	if !ok {
		return
	}
	form, err := h.svc.RenewalForm(r.Context(), id, httpx.PrincipalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.view(form), nil)
}

type renewReq struct {
	RenewalDate jsoniter.RawMessage `json:"renewal_date"`
}

// renewalInput extracts the submitted date as text. An unreadable body or a
// non-string value is passed on as is so that it fails date parsing.
func renewalInput(r *http.Request) string {
	var req renewReq
	if err := httpx.DecodeJSON(r, &req); err != nil || len(req.RenewalDate) == 0 {
		return ""
	}
	var s string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(req.RenewalDate, &s); err == nil {
		return s
	}
	return string(req.RenewalDate)
}

// Renew handles POST /v1/bookinstances/{id}/renew
// @Summary Renew a loan
// @Description Sets due_back to the submitted date when it lies within four weeks from today
// @Tags loans
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book instance id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/bookinstances/{id}/renew [post]
func (h *HTTPHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, ok := h.renewalTarget(w, r)
	if !ok {
		return
	}

	form, err := h.svc.SubmitRenewal(r.Context(), id, httpx.PrincipalFrom(r), renewalInput(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if form.Err != nil {
		httpx.JSONErrorWithMeta(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid renewal date",
			[]httpx.ErrorDetail{{
				Field:   "renewal_date",
				Code:    ErrorCode(form.Err),
				Message: form.Err.Error(),
			}},
			map[string]any{
				"renewal_date":     form.Input,
				"state":            form.State.String(),
				"book_instance_id": form.Instance.ID,
			})
		return
	}

	w.Header().Set("Location", form.RedirectTo)
	httpx.JSONSuccess(w, r, h.view(form), map[string]any{"redirect": form.RedirectTo})
}

// Mine handles GET /v1/bookinstances/mine
// @Summary Books on loan to the caller
// @Tags loans
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/bookinstances/mine [get]
func (h *HTTPHandler) Mine(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, minePageSize)
	loans, total, err := h.svc.ListBorrowedBy(r.Context(), httpx.PrincipalFrom(r), page.Limit(), page.Offset())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, page.Meta(total))
}

// Borrowed handles GET /v1/bookinstances/borrowed
// @Summary All books on loan
// @Tags loans
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/bookinstances/borrowed [get]
func (h *HTTPHandler) Borrowed(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, borrowedPageSize)
	loans, total, err := h.svc.ListAllBorrowed(r.Context(), page.Limit(), page.Offset())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, page.Meta(total))
}

// parseFilters reads the enabled list filters, returning the offending
// parameters when any of them is malformed.
func (h *HTTPHandler) parseFilters(r *http.Request) (Query, []httpx.ErrorDetail) {
	var (
		q       Query
		details []httpx.ErrorDetail
		values  = r.URL.Query()
	)
	enabled := func(name string) bool {
		return slices.Contains(h.filters, name) && values.Get(name) != ""
	}

	if enabled("book") {
		id, ok := httpx.QueryInt64(r, "book")
		if !ok {
			details = append(details, httpx.ErrorDetail{Field: "book", Code: "invalid", Message: "Must be a book id"})
		}
		q.BookID = id
	}
	if enabled("status") {
		s := catalog.Status(strings.ToLower(values.Get("status")))
		if !s.Valid() {
			details = append(details, httpx.ErrorDetail{Field: "status", Code: "invalid", Message: "Unknown status"})
		} else {
			q.Status = &s
		}
	}
	if enabled("due_back") {
		d, err := catalog.ParseDate(values.Get("due_back"))
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "due_back", Code: "invalid", Message: "Enter a valid date"})
		} else {
			q.DueBack = &d
		}
	}
	return q, details
}

// AdminList handles GET /v1/admin/bookinstances
func (h *HTTPHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q, details := h.parseFilters(r)
	if len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}
	page := httpx.ParsePage(r, adminPageSize)
	q.Limit, q.Offset = page.Limit(), page.Offset()

	loans, total, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, page.Meta(total))
}

type createReq struct {
	BookID     int64   `json:"book_id" validate:"required,gt=0"`
	Imprint    string  `json:"imprint" validate:"required,max=200"`
	DueBack    string  `json:"due_back"`
	Status     string  `json:"status" validate:"omitempty,oneof=m o a r"`
	BorrowerID *string `json:"borrower_id" validate:"omitempty,uuid"`
}

// AdminCreate handles POST /v1/admin/bookinstances
func (h *HTTPHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	req.Imprint = strings.TrimSpace(req.Imprint)
	details := httpx.ValidateStruct(req)
	dueBack, err := catalog.ParseOptionalDate(req.DueBack)
	if err != nil {
		details = append(details, httpx.ErrorDetail{Field: "due_back", Code: "invalid", Message: "Enter a valid date"})
	}
	if len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	created, err := h.svc.Create(r.Context(), catalog.BookInstance{
		BookID:     req.BookID,
		Imprint:    req.Imprint,
		DueBack:    dueBack,
		Status:     catalog.Status(req.Status),
		BorrowerID: req.BorrowerID,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRef) {
			httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{
				Field: "book_id", Code: "invalid_reference", Message: "Book or borrower does not exist",
			}})
			return
		}
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, created)
}

// AdminDelete handles DELETE /v1/admin/bookinstances/{id}
func (h *HTTPHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

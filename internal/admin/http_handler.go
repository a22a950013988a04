package admin

import (
	"net/http"

	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	registry *Registry
}

func NewHTTPHandler(registry *Registry) *HTTPHandler {
	return &HTTPHandler{registry: registry}
}

// Config handles GET /v1/admin/config
// @Summary Console configuration
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/admin/config [get]
func (h *HTTPHandler) Config(w http.ResponseWriter, r *http.Request) {
	if entity := r.URL.Query().Get("entity"); entity != "" {
		m, ok := h.registry.Lookup(entity)
		if !ok {
			httpx.NotFound(w, r, "Unknown entity")
			return
		}
		httpx.JSONSuccess(w, r, m, nil)
		return
	}
	httpx.JSONSuccess(w, r, h.registry.All(), nil)
}

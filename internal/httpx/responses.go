package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SuccessResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    map[string]any    `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail points at a single offending input field.
type ErrorDetail struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request, customMeta map[string]any) map[string]any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(customMeta) == 0 {
		return nil
	}
	meta := make(map[string]any, len(customMeta)+1)
	for k, v := range customMeta {
		meta[k] = v
	}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	return meta
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, nil),
	})
}

func JSONSuccessNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details []ErrorDetail) {
	JSONErrorWithMeta(w, r, statusCode, code, message, details, nil)
}

// JSONErrorWithMeta is JSONError plus extra meta, used to echo submitted
// input back to the client alongside field errors.
func JSONErrorWithMeta(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details []ErrorDetail, meta map[string]any) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, meta),
	})
}

// Common error shortcuts.

func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func Unauthorized(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func InternalError(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func ValidationFailed(w http.ResponseWriter, r *http.Request, details []ErrorDetail) {
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
}

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// response.go

package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response shape. Every error carries a
// machine-readable code; nothing is returned outside this envelope.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	ErrorCode  string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, data any, page, pageSize, total int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// JSONError writes err as the error envelope. Non-AppError values are
// treated as internal faults and logged; their details never reach the
// caller.
func JSONError(w http.ResponseWriter, err error) {
	if appErr, ok := AsAppError(err); ok {
		writeJSON(w, appErr.Status, Envelope{
			Success:   false,
			Message:   appErr.Message,
			ErrorCode: appErr.Code,
		})
		return
	}

	slog.Error("unhandled error", "error", err)
	appErr := InternalError(err)
	writeJSON(w, appErr.Status, Envelope{
		Success:   false,
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	appErr := NotAuthenticatedError()
	if message != "" {
		appErr.Message = message
	}
	JSONError(w, appErr)
}

func Forbidden(w http.ResponseWriter, message string) {
	appErr := InsufficientPermissionsError()
	if message != "" {
		appErr.Message = message
	}
	JSONError(w, appErr)
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, InternalError(err))
}

// DecodeJSON decodes a request body into dst. Malformed or empty
// bodies surface as INVALID_JSON so validation codes stay reserved for
// well-formed requests with bad values.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return InvalidJSONError()
	}
	return nil
}

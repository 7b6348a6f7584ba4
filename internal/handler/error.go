// Package handler contains the HTTP handlers and their shared response
// helpers. Handlers translate between the wire and the service layer; all
// business rules live below them.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/vidar/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EPAYMENT:
		return http.StatusPaymentRequired
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorResponse writes a domain error to the response. JSON clients get the
// structured envelope; everything else gets plain text. Internal errors are
// logged with their underlying cause but only a generic message leaves the
// server.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	if code == domain.EINTERNAL {
		slog.Default().Error("internal error",
			slog.String("op", domain.ErrorOp(err)),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	writeError(w, r, status, errorBody{Code: code, Message: message})
}

// ValidationErrorResponse writes a field-level validation error. Non-validation
// errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	writeError(w, r, http.StatusBadRequest, errorBody{
		Code:    domain.EINVALID,
		Message: "Validation failed.",
		Fields:  fields,
	})
}

// NotFoundResponse writes a generic 404.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, errorBody{
		Code:    domain.ENOTFOUND,
		Message: "The requested resource was not found.",
	})
}

// UnauthorizedResponse writes a generic 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnauthorized, errorBody{
		Code:    domain.EUNAUTHORIZED,
		Message: "Authentication required.",
	})
}

// ForbiddenResponse writes a generic 403.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusForbidden, errorBody{
		Code:    domain.EFORBIDDEN,
		Message: "You do not have permission to do that.",
	})
}

// InternalErrorResponse writes a generic 500 and logs the cause if given.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.Default().Error("internal error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	writeError(w, r, http.StatusInternalServerError, errorBody{
		Code:    domain.EINTERNAL,
		Message: "An internal error occurred. Please try again later.",
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	if acceptsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(errorEnvelope{Error: body}) //nolint:errcheck
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body.Message)) //nolint:errcheck
}

// acceptsJSON reports whether the client asked for JSON, by Accept header,
// request Content-Type, or a .json path suffix.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}

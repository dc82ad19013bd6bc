package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error":{...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Error codes.
const (
	codeNotFound     = "not_found"
	codeValidation   = "validation_error"
	codeBadRequest   = "bad_request"
	codeInvalidToken = "invalid_token"
	codeImportFormat = "invalid_import"
	codeUnavailable  = "unavailable"
	codeTooLarge     = "payload_too_large"
	codeInternal     = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps a service error onto a status code and error body.
// what names the resource for not-found messages, e.g. "trip".
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, what+" not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, codeInvalidToken, "share token is invalid")
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, fmt.Sprintf("body exceeds %d bytes", maxBytes.Limit))
	case errors.Is(err, domain.ErrImportFormat):
		writeError(w, http.StatusBadRequest, codeImportFormat, unwrapMessage(err, domain.ErrImportFormat))
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "place data is temporarily unavailable")
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part after the sentinel text.
// e.g. "service.TripService.Update: name must not be blank: validation error"
// becomes "name must not be blank".
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	// Drop the "pkg.Type.Method: " prefixes.
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !strings.Contains(head, ".") || strings.Contains(head, " ") {
			break
		}
		msg = rest
	}
	msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// decodeBody decodes a JSON request body into dst and validates it.
// The returned message is suitable for a 400/422 response.
func (s *Server) decodeBody(r *http.Request, dst any) (int, string, bool) {
	// An empty body decodes as the zero value.
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return http.StatusRequestEntityTooLarge, "request body too large", false
		}
		return http.StatusBadRequest, "request body must be valid JSON", false
	}
	if err := s.validate.Struct(dst); err != nil {
		return http.StatusUnprocessableEntity, validationMessage(err), false
	}
	return 0, "", true
}

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage flattens validator errors into one line,
// e.g. "name: max; description: max".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

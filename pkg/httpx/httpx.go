package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/dmehra2102/marketplace/pkg/apperr"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorWriter renders classified errors; unclassified ones are logged and hidden.
func ErrorWriter(log *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		WriteError(log, w, r, err)
	}
}

func WriteError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	resp := ErrorResponse{Error: apperr.KindOf(err).String(), Message: apperr.Message(err)}

	var fe *FieldErrors
	if errors.As(err, &fe) {
		resp.Fields = fe.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	WriteJSON(w, status, resp)
}

// FieldErrors carries per-field validation failures of a request payload.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string { return "validation failed" }

func (e *FieldErrors) Unwrap() error { return errInvalidPayload }

var errInvalidPayload = apperr.Validation("validation failed")

// Decode reads a JSON body into out, rejecting unknown fields, then validates it.
func Decode(r *http.Request, v *validatorv10.Validate, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is empty")
		}
		return &apperr.Error{Kind: apperr.KindValidation, Msg: "invalid request body", Err: err}
	}
	if err := v.Struct(out); err != nil {
		return toFieldErrors(err)
	}
	return nil
}

func toFieldErrors(err error) error {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return &apperr.Error{Kind: apperr.KindValidation, Msg: "invalid request body", Err: err}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		out[field] = fe.Tag()
	}
	return &FieldErrors{Fields: out}
}

// IDParam parses a positive integer URL parameter; malformed ids are reported as
// not found, matching an unknown id.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(name + " not found")
	}
	return id, nil
}

package server

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/teranos/formulary/errors"
)

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// envelopeAllowance is the room left for JSON syntax around a notation
// that is exactly max_notation_bytes long
const envelopeAllowance = 1024

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response. Status is derived from the
// sentinel the error wraps; hints attached with errors.WithHint are
// passed through to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		Error:     err.Error(),
		Hints:     errors.GetAllHints(err),
		RequestID: middleware.GetReqID(r.Context()),
	}
	_ = writeJSON(w, statusFor(err), resp)
}

// statusFor maps error sentinels to HTTP status codes
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errors.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.IsInvalidRequestError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// readJSON decodes a size-limited JSON body into v and validates it.
// On failure the error response has already been written.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.maxNotationBytes()+envelopeAllowance))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, errors.Wrapf(errors.ErrTooLarge, "request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		writeError(w, r, errors.NewInvalidRequestError("invalid request body: %v", err))
		return false
	}

	if err := validate.Struct(v); err != nil {
		writeError(w, r, validationError(err))
		return false
	}
	return true
}

// validationError converts validator output into an invalid-request error
// naming the JSON fields at fault
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.NewInvalidRequestError("%v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return errors.NewInvalidRequestError("invalid fields: %s", strings.Join(fields, ", "))
}

// checkNotationSize rejects notation longer than max_notation_bytes
func (s *Server) checkNotationSize(notation string) error {
	if limit := s.maxNotationBytes(); len(notation) > limit {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrTooLarge, "notation is %d bytes, limit is %d", len(notation), limit),
			"raise server.max_notation_bytes in am.toml",
		)
	}
	return nil
}

func (s *Server) maxNotationBytes() int {
	return s.cfg.Load().Server.MaxNotationBytes
}

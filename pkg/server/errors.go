// pkg/server/errors.go
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// ErrResponse is the JSON body of every failed request
type ErrResponse struct {
	HTTPStatusCode int `json:"-"`

	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Render sets the response status
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

var (
	errMissingFile = errors.New("multipart field 'file' is required")
	errInvalidForm = errors.New("invalid multipart form")
)

// errorResponse maps domain errors onto HTTP statuses
func errorResponse(err error) *ErrResponse {
	var (
		loadErr  *model.LoadError
		validErr validator.ValidationErrors
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.Is(err, cleaner.ErrSessionNotFound):
		return &ErrResponse{HTTPStatusCode: http.StatusNotFound, Code: "SESSION_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, model.ErrEmptySession):
		return &ErrResponse{HTTPStatusCode: http.StatusConflict, Code: "EMPTY_SESSION", Message: err.Error()}
	case errors.As(err, &loadErr):
		return &ErrResponse{HTTPStatusCode: http.StatusUnprocessableEntity, Code: "LOAD_FAILED", Message: loadErr.Error()}
	case errors.As(err, &tooLarge):
		return &ErrResponse{HTTPStatusCode: http.StatusRequestEntityTooLarge, Code: "PAYLOAD_TOO_LARGE", Message: err.Error()}
	case errors.As(err, &validErr):
		fields := make(map[string]string, len(validErr))
		for _, fe := range validErr {
			fields[fe.Namespace()] = fe.Tag()
		}
		return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "request validation failed", Fields: fields}
	case errors.Is(err, errMissingFile), errors.Is(err, errInvalidForm):
		return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: err.Error()}
	default:
		return &ErrResponse{HTTPStatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: err.Error()}
	}
}

// badRequest reports a malformed request body or form
func badRequest(err error) *ErrResponse {
	return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: err.Error()}
}

// fail logs err and renders it as JSON
func (s *Server) fail(w http.ResponseWriter, r *http.Request, resp *ErrResponse) {
	resp.RequestID = middleware.GetReqID(r.Context())

	fields := []zap.Field{
		zap.String("requestID", resp.RequestID),
		zap.String("path", r.URL.Path),
		zap.Int("status", resp.HTTPStatusCode),
		zap.String("message", resp.Message),
	}
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		s.logger.Error("Request failed", fields...)
	} else {
		s.logger.Debug("Request rejected", fields...)
	}

	if err := render.Render(w, r, resp); err != nil {
		s.logger.Error("Failed to render error", zap.Error(err))
	}
}

func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, errorResponse(err))
}

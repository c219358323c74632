package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// httpResponseWriter is implemented by errors that write their own response.
type httpResponseWriter interface {
	WriteHTTPResponse(context.Context, http.ResponseWriter)
}

type errorBody struct {
	Error string `json:"error"`
}

// exportErrorBody is the failure body of the export routes.
type exportErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError answers with Status and a JSON body.
type statusError struct {
	Status int
	Body   any
	Cause  error
}

func newError(status int, msg string, cause error) *statusError {
	return &statusError{Status: status, Body: errorBody{Error: msg}, Cause: cause}
}

func (e *statusError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Cause)
}

func (e *statusError) Unwrap() error {
	return e.Cause
}

func (e *statusError) WriteHTTPResponse(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, nil, w, e.Status, e.Body)
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// handle adapts h and sends its error, if any, through onError.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.onError(r.Context(), w, err)
		}
	}
}

func (s *Server) onError(ctx context.Context, w http.ResponseWriter, err error) {
	s.log.ErrorContext(ctx, "sending error response",
		slog.String("request_id", requestIDFrom(ctx)),
		slog.Any("error", err),
	)

	var hrw httpResponseWriter
	if errors.As(err, &hrw) {
		hrw.WriteHTTPResponse(ctx, w)
		return
	}
	writeJSON(ctx, s.log, w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

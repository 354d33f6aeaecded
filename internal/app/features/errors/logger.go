// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// RenderFunc writes a user-facing error response.
type RenderFunc func(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string)

// ErrorLogger logs a failure with request context and answers the client
// with a friendly page (HTML) or {"error": …} (API).
type ErrorLogger struct {
	Log    *zap.Logger
	Render RenderFunc
}

// NewErrorLogger returns an ErrorLogger that renders the shared error page.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: RenderPage}
}

// PlainText renders errors as text/plain. Handy where templates are not booted.
func PlainText(w http.ResponseWriter, _ *http.Request, status int, _, msg, _ string) {
	http.Error(w, msg, status)
}

// LogServerError logs at error level and responds 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, requestFields(r, err)...)
	e.respond(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and responds 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, requestFields(r, err)...)
	e.respond(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogNotFound logs at info level and responds 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, userMsg, backURL string) {
	e.Log.Info(logMsg, requestFields(r, nil)...)
	e.respond(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	if wantsJSON(r) {
		WriteJSON(w, status, msg)
		return
	}
	render := e.Render
	if render == nil {
		render = RenderPage
	}
	render(w, r, status, title, msg, backURL)
}

func requestFields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

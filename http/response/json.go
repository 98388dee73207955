package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/log"
	"go.uber.org/zap"
)

const contentTypeHeader = `application/json`

// Error codes a client can dispatch on. Token expiry is distinguishable
// from other credential failures so clients know to refresh and retry.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeInternal        = "INTERNAL"
)

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithStatus(http.StatusCreated)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	builder := New(w, r)
	builder.WithStatus(http.StatusNoContent)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logRequest(http.StatusInternalServerError, r, err)
	writeError(w, r, http.StatusInternalServerError, CodeInternal, err)
}

// BadRequest sends a validation error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logRequest(http.StatusBadRequest, r, err)
	writeError(w, r, http.StatusBadRequest, CodeValidation, err)
}

// PayloadTooLarge rejects an upload exceeding the size ceiling.
func PayloadTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	logRequest(http.StatusRequestEntityTooLarge, r, err)
	writeError(w, r, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, err)
}

// Unauthorized sends a not authorized error to the client.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	logRequest(http.StatusUnauthorized, r, nil)
	writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, errors.New("access unauthorized"))
}

// TokenExpired tells the client its credential ran out and a refresh is in
// order.
func TokenExpired(w http.ResponseWriter, r *http.Request) {
	logRequest(http.StatusUnauthorized, r, nil)
	writeError(w, r, http.StatusUnauthorized, CodeTokenExpired, errors.New("credential expired, refresh and retry"))
}

// NotFound sends a resource not found error to the client. Used both for
// records that do not exist and records owned by someone else.
func NotFound(w http.ResponseWriter, r *http.Request) {
	logRequest(http.StatusNotFound, r, nil)
	writeError(w, r, http.StatusNotFound, CodeNotFound, errors.New("resource not found"))
}

func logRequest(status int, r *http.Request, err error) {
	fields := []zap.Field{
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", status),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	if status >= http.StatusInternalServerError {
		log.Error(http.StatusText(status), fields...)
	} else {
		log.Warn(http.StatusText(status), fields...)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	builder := New(w, r)
	builder.WithStatus(status)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSONError(code, err))
	builder.Write()
}

func toJSONError(code string, err error) []byte {
	type errorMsg struct {
		ErrorMessage string `json:"error_message"`
		Code         string `json:"code,omitempty"`
	}

	return toJSON(errorMsg{ErrorMessage: err.Error(), Code: code})
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Any("error", err))
		return []byte("")
	}

	return b
}

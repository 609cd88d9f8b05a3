// Package handler contains the HTTP handlers of the QR code service: the
// redirect interstitial, the QR code and lead API, and the internal stats.
// It decodes JSON bodies, maps service errors to status codes and writes
// JSON responses.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/qrimage"
	"github.com/atinyakov/neoqrc/internal/redirect"
	"github.com/atinyakov/neoqrc/internal/storage"
)

// malformedRequest represents an error with a malformed HTTP request.
type malformedRequest struct {
	status int
	msg    string
}

// Error returns the error message for a malformed request.
func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes a JSON request body into the given destination struct.
// It checks the content type, limits the body to 1MB and turns common
// decoding failures into a malformedRequest.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			msg := "Content-Type header is not application/json"
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: msg}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			msg := "Request body contains badly-formed JSON"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.EOF):
			msg := "Request body must not be empty"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &maxBytesError):
			msg := "Request body must not be larger than 1MB"
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: msg}

		default:
			return err
		}
	}

	// Ensure the body only contains a single JSON object
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		msg := "Request body must only contain a single JSON object"
		return &malformedRequest{status: http.StatusBadRequest, msg: msg}
	}

	return nil
}

// errorStatus maps an error to the HTTP status it is reported with.
func errorStatus(err error) int {
	var mr *malformedRequest
	switch {
	case errors.As(err, &mr):
		return mr.status
	case errors.Is(err, redirect.ErrMissingCode),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrTermsNotAccepted):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, redirect.ErrNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, qrimage.ErrEmptyContent):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotDynamic),
		errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, redirect.ErrLookupFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrExhaustedAttempts):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(res http.ResponseWriter, status int, v any) {
	response, err := json.Marshal(v)
	if err != nil {
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_, _ = res.Write(response)
}

// writeError reports err as a JSON error body. Server-side failures are
// logged and their details withheld.
func writeError(res http.ResponseWriter, logger *zap.Logger, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
		msg = http.StatusText(status)
	}

	writeJSON(res, status, models.ErrorResponse{Error: msg})
}

func originOf(req *http.Request) models.Origin {
	return models.Origin{
		IP:        middleware.ClientIP(req),
		UserAgent: req.UserAgent(),
	}
}

package services

import (
	stderrors "errors"
	"net/http"

	"biodash/adapters/pngchart"
	"biodash/domain/core"
	"biodash/internal/errors"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusFor maps an error to its HTTP status and response body.
func StatusFor(err error) (int, ErrorResponse) {
	switch {
	case stderrors.Is(err, core.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable, respond(err, errors.CodeDatasetUnavailable)
	case stderrors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusNotFound, respond(err, errors.CodeNotFound)
	case stderrors.Is(err, core.ErrInvalidIndex):
		return http.StatusBadRequest, respond(err, errors.CodeInvalidInput)
	case stderrors.Is(err, core.ErrUnsupportedChart):
		return http.StatusNotFound, respond(err, errors.CodeUnsupported)
	case stderrors.Is(err, pngchart.ErrNothingToDraw):
		return http.StatusUnprocessableEntity, respond(err, errors.CodeInvalidInput)
	}

	code := errors.GetCode(err)
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest, respond(err, code)
	case errors.CodeNotFound, errors.CodeUnsupported:
		return http.StatusNotFound, respond(err, code)
	case errors.CodeDatasetUnavailable, errors.CodeDatasetInvalid:
		return http.StatusServiceUnavailable, respond(err, code)
	}
	return http.StatusInternalServerError, respond(err, errors.CodeInternalError)
}

func respond(err error, code string) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Code: code}
}

package api

import (
	"errors"
	"net/http"

	"wealthlens/pkg/wealthlens"
)

// Response is the unified success envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the unified error envelope.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

func writeSuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeErrorResponse maps a domain error to an HTTP status and writes
// the error envelope. The message is also attached to the wrapped
// response writer so the request log carries it.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var domainErr *wealthlens.Error
	if errors.As(err, &domainErr) {
		response.ErrorCode = string(domainErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(domainErr.Code)
		response.Code = httpStatus
	}

	if setter, ok := w.(interface{ SetErrorMessage(string) }); ok {
		setter.SetErrorMessage(response.Message)
	}

	writeJSON(w, httpStatus, response)
}

func mapErrorCodeToHTTPStatus(code wealthlens.ErrorCode) int {
	switch code {
	case wealthlens.ErrCodeInvalidInput, wealthlens.ErrCodeValidation:
		return http.StatusBadRequest
	case wealthlens.ErrCodeNotFound:
		return http.StatusNotFound
	case wealthlens.ErrCodeDataIntegrity:
		return http.StatusUnprocessableEntity
	case wealthlens.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case wealthlens.ErrCodeDatabase, wealthlens.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

package dto

import (
	"errors"
	"net/http"

	"github.com/erp/posting/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain failures keep their domain code.
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeMissingScope = "ERR_MISSING_SCOPE"
	ErrCodeSetup        = "ERR_SETUP"
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

var kindStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:      http.StatusNotFound,
	shared.KindValidation:    http.StatusUnprocessableEntity,
	shared.KindConflict:      http.StatusConflict,
	shared.KindConfiguration: http.StatusInternalServerError,
	shared.KindFatal:         http.StatusInternalServerError,
}

// HTTPStatus returns the status code for an error kind
func HTTPStatus(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError builds the status code and body for err.
// Configuration errors are reported as ERR_SETUP; fatal errors never leak their message.
func FromError(err error, requestID string) (int, Response) {
	kind := shared.KindOf(err)

	var resp Response
	switch kind {
	case shared.KindFatal:
		resp = NewErrorResponse(ErrCodeInternal, "An unexpected error occurred", requestID)
	case shared.KindConfiguration:
		resp = NewErrorResponse(ErrCodeSetup, err.Error(), requestID)
	default:
		code := ErrCodeInternal
		var de *shared.DomainError
		if errors.As(err, &de) {
			code = de.Code
		}
		// err.Error() keeps prefixes such as "line 2: " that name the failing line
		resp = NewErrorResponse(code, err.Error(), requestID)
	}
	resp.Error.Kind = string(kind)
	return HTTPStatus(kind), resp
}

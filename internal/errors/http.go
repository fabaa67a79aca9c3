package errors

import "net/http"

// HTTPStatus maps the error code found in the chain of err to a response status
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case !IsAppError(err):
		return http.StatusInternalServerError
	case HasCode(err, CodeDataSource):
		return http.StatusServiceUnavailable
	case HasCode(err, CodeColumnNotFound):
		return http.StatusUnprocessableEntity
	case HasCode(err, CodeInvalidRange), HasCode(err, CodeInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

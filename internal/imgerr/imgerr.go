// Package imgerr defines the error taxonomy shared by the image pipeline.
//
// Errors are plain sentinels wrapped with fmt.Errorf("...: %w", ...) at the
// point of failure, so callers classify them with errors.Is and still get the
// underlying OS or codec detail in the message.
package imgerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means a directory or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParameter covers bad angles, zero factors and degenerate dimensions.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDecodeFailed means the bytes could not be decoded as a supported image.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrEncodeFailed means a raster could not be serialized.
	ErrEncodeFailed = errors.New("encode failed")
	// ErrIO wraps an underlying filesystem failure.
	ErrIO = errors.New("io error")
	// ErrTargetExists means a rename destination is already taken.
	ErrTargetExists = errors.New("target exists")
)

// ErrUnsupportedRotation is an InvalidParameter for angles other than 90 and -90.
var ErrUnsupportedRotation = fmt.Errorf("%w: unsupported rotation angle, only 90 and -90 are supported", ErrInvalidParameter)

// NotFound returns an ErrNotFound carrying a formatted message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Invalid returns an ErrInvalidParameter carrying a formatted message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// IO wraps err as an ErrIO, keeping the OS detail in the message.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// Kind returns a short label for err, used for metric labels and API payloads.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrDecodeFailed):
		return "decode_failed"
	case errors.Is(err, ErrEncodeFailed):
		return "encode_failed"
	case errors.Is(err, ErrTargetExists):
		return "target_exists"
	case errors.Is(err, ErrIO):
		return "io_error"
	default:
		return "error"
	}
}

// HTTPStatus maps err onto the status code the API responds with.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case "ok":
		return http.StatusOK
	case "not_found":
		return http.StatusNotFound
	case "invalid_parameter":
		return http.StatusBadRequest
	case "decode_failed":
		return http.StatusUnprocessableEntity
	case "target_exists":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

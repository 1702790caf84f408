package response

import (
	"errors"
)

const (
	KindValidation       = "VALIDATION_ERROR"
	KindImageDecode      = "IMAGE_DECODE_ERROR"
	KindModelUnavailable = "MODEL_UNAVAILABLE"
	KindInternal         = "INTERNAL_ERROR"
)

type Error struct {
	Code int
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind && e.Err.Error() == t.Err.Error()
}

// IsClientError reports whether the error should be surfaced as a client-side rejection.
func (e *Error) IsClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

func NewError(code int, kind string, err string) error {
	return &Error{Code: code, Kind: kind, Err: errors.New(err)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) string {
	var respErr *Error
	if errors.As(err, &respErr) && respErr.Kind != "" {
		return respErr.Kind
	}
	return KindInternal
}

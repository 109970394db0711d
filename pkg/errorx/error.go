package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// CodeOf returns the code carried by err, or Unknown.Code if err is not an
// Error.
func CodeOf(err error) Code {
	var errx Error
	if errors.As(err, &errx) {
		return errx.Code
	}

	return Unknown.Code
}

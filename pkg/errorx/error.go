package errorx

import "fmt"

var Unknown = Error{Code: Internal, Message: "Request failed"}

type Error struct {
	Code    Code
	Message string

	// Detail carries extra fields merged into the error response body, for
	// example next_available_at on a cooldown rejection.
	Detail map[string]any
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// WithDetail returns a copy of the error with an extra detail field attached.
func (e Error) WithDetail(key string, value any) Error {
	detail := map[string]any{}
	for k, v := range e.Detail {
		detail[k] = v
	}

	detail[key] = value
	e.Detail = detail
	return e
}

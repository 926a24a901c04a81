package record

import (
	"github.com/goliatone/go-errors"
)

// ResponseMessage is the envelope returned by every repository and service
// operation. A nil Data with IsSuccess set means the lookup found nothing,
// which is not an error.
type ResponseMessage[T any] struct {
	IsSuccess    bool     `json:"isSuccess"`
	Message      string   `json:"message"`
	DataCount    *int     `json:"dataCount,omitempty"`
	ErrorMessage []string `json:"errorMessage,omitempty"`
	Data         *T       `json:"data,omitempty"`
}

// HasData reports whether the envelope carries a payload.
func (r ResponseMessage[T]) HasData() bool {
	return r.Data != nil
}

// IsFault reports whether the envelope describes an unexpected failure, as
// opposed to a business condition such as a failed id check.
func (r ResponseMessage[T]) IsFault() bool {
	return len(r.ErrorMessage) > 0
}

// Ok wraps data in a successful envelope.
func Ok[T any](data T) ResponseMessage[T] {
	return ResponseMessage[T]{IsSuccess: true, Data: &data}
}

// Empty is a successful envelope without payload.
func Empty[T any](message string) ResponseMessage[T] {
	return ResponseMessage[T]{IsSuccess: true, Message: message}
}

// List wraps items in a successful envelope and sets DataCount.
func List[T any](items []T) ResponseMessage[[]T] {
	count := len(items)
	return ResponseMessage[[]T]{IsSuccess: true, DataCount: &count, Data: &items}
}

// Fail reports a recoverable business condition. ErrorMessage stays empty.
func Fail[T any](message string) ResponseMessage[T] {
	return ResponseMessage[T]{Message: message}
}

// Fault reports an unexpected failure. ErrorMessage holds the text of the
// root cause so callers see the underlying store error, not our wrapping.
func Fault[T any](message string, err error) ResponseMessage[T] {
	res := ResponseMessage[T]{Message: message}
	if err != nil {
		res.ErrorMessage = []string{errors.RootCause(err).Error()}
	}
	return res
}

// Carry copies the outcome of r into an envelope of another payload type.
// Data is dropped.
func Carry[U, T any](r ResponseMessage[T]) ResponseMessage[U] {
	return ResponseMessage[U]{
		IsSuccess:    r.IsSuccess,
		Message:      r.Message,
		DataCount:    r.DataCount,
		ErrorMessage: r.ErrorMessage,
	}
}

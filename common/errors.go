package common

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrMediaTooLarge = errors.New("media too large")
var ErrUnsupportedMedia = errors.New("unsupported media type")
var ErrFileNotFound = errors.New("File not found")

// TransportError is a fetch failure that survived every retry. Err is the error of the final attempt.
type TransportError struct {
	Url     string
	Timeout time.Duration
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error fetching %s (timeout %s): %s", e.Url, e.Timeout, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError carries the decoder's own diagnostic for a payload that isn't the declared kind.
type DecodeError struct {
	Kind MediaKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: error decoding: %s", e.Kind, e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type StorageError struct {
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

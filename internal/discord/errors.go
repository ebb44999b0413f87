package discord

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInvalidURL ErrorKind = iota + 1
	KindTimeout
	KindHTTP
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid url"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http error"
	case KindTransport:
		return "transport error"
	}
	return "unknown"
}

var (
	ErrNoURL      = errors.New("no webhook URL configured")
	ErrInvalidURL = errors.New("invalid Discord webhook URL")
	ErrTimeout    = errors.New("webhook request timeout")
)

// Error is a failed dispatch. Status and Body are set for KindHTTP only.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("webhook request failed: %d - %s", e.Status, e.Body)
	case KindTimeout:
		return ErrTimeout.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrInvalidURL:
		return e.Kind == KindInvalidURL
	}
	return false
}

// KindOf extracts the dispatch failure class from err, 0 if err is not a dispatch error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

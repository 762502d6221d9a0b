package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindMetricsBackend
	KindSecretNotFound
	KindSecretBackend
	KindDelivery
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMetricsBackend:
		return "metrics_backend"
	case KindSecretNotFound:
		return "secret_not_found"
	case KindSecretBackend:
		return "secret_backend"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error tags a failure with the collaborator it came from, so callers can
// branch on kind instead of matching message text.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapErr builds a kinded error around cause.
func WrapErr(kind ErrorKind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

package fanout

import (
	"errors"
	"fmt"
)

// Kind classifies a retrieval failure.
type Kind int

const (
	// KindNetwork is a transport failure: timeouts, resets, 5xx answers.
	KindNetwork Kind = iota + 1
	// KindBlocked is an upstream block or throttle signal.
	KindBlocked
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *RetrievalError of the same kind.
var (
	ErrNetwork = errors.New("network failure")
	ErrBlocked = errors.New("blocked by upstream")
)

// RetrievalError is returned by fetchers when a metric could not be read.
// It is never a legitimate zero.
type RetrievalError struct {
	Source string
	ID     string
	Kind   Kind
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s [%s] %s: %v", e.Source, e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Kind, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

func (e *RetrievalError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrBlocked:
		return e.Kind == KindBlocked
	}
	return false
}

// Blocked builds a KindBlocked error.
func Blocked(source, id string, err error) *RetrievalError {
	return &RetrievalError{Source: source, ID: id, Kind: KindBlocked, Err: err}
}

// NetworkFailure builds a KindNetwork error.
func NetworkFailure(source, id string, err error) *RetrievalError {
	return &RetrievalError{Source: source, ID: id, Kind: KindNetwork, Err: err}
}

// IsRetrieval reports whether err carries a *RetrievalError.
func IsRetrieval(err error) bool {
	var rerr *RetrievalError
	return errors.As(err, &rerr)
}

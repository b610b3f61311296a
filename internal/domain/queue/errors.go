package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrSuperseded is returned when a newer fetch was applied before this one finished.
	ErrSuperseded = errors.New("fetch superseded by a newer generation")

	// ErrNoSnapshot means no fetch has succeeded yet.
	ErrNoSnapshot = errors.New("no queue snapshot available")
)

type FetchErrorKind string

const (
	FetchTransport FetchErrorKind = "transport"
	FetchStatus    FetchErrorKind = "status"
	FetchDecode    FetchErrorKind = "decode"
)

// FetchError describes a failed upstream fetch. The whole fetch fails;
// individual malformed records never produce one.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("upstream fetch failed: status %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("upstream fetch failed (%s)", e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

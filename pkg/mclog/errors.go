package mclog

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrSchedulerClosed is returned by operations on a closed
	// scheduler.
	ErrSchedulerClosed = errors.New("scheduler closed")

	// ErrNoFetcher is returned when entering Live or Range mode
	// without a configured fetcher.
	ErrNoFetcher = errors.New("no fetcher configured")

	// ErrInvalidRange is returned when a range request's end day is
	// before its start day.
	ErrInvalidRange = errors.New("range end before start")

	// ErrUnknownType is returned when deriving a page for an event
	// type the registry does not know.
	ErrUnknownType = errors.New("unknown event type")
)

// FetchError wraps a failed text fetch with its key. Fetch failures
// are never fatal: the engine treats the key's content as empty and
// surfaces the error only for logging.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

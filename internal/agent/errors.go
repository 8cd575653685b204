package agent

import (
	"errors"
	"fmt"
)

// ErrEmptyUtterance is returned when a turn carries no explicit message
// and its history contains no user entry to fall back on.
var ErrEmptyUtterance = errors.New("turn has no user utterance")

// ErrBackendUnavailable is returned when the history endpoint cannot be
// reached or answers with a non-2xx status. Callers get no partial data.
var ErrBackendUnavailable = errors.New("agent backend unavailable")

// RelayError reports a non-2xx answer from the agent backend chat
// endpoint. Body carries the backend's response body verbatim.
type RelayError struct {
	Status int
	Body   string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("agent backend returned status %d: %s", e.Status, e.Body)
}

// TransportError reports that the request to the agent backend could not
// be sent at all (network, DNS, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("agent backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

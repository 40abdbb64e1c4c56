package routing

import "errors"

var (
	// ErrInvalidNode means the query referenced a node absent from the
	// graph. Caller bug, not retried.
	ErrInvalidNode = errors.New("source or target node not in graph")

	// ErrNoPath means the search exhausted the frontier without reaching
	// the target. A valid outcome for disconnected regions, distinct from
	// ErrInvalidNode so callers can tell bad input from no route.
	ErrNoPath = errors.New("no path between source and target")
)

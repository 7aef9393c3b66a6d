package collector

import (
	"errors"
	"fmt"
)

// ErrCollectorEnded is matched by every EndedError.
var ErrCollectorEnded = errors.New("collector ended")

// EndedError is returned by Next once the collector has ended. It carries
// everything gathered so callers can inspect the final result.
type EndedError[E any] struct {
	Collected []E
	Reason    string
}

func (e *EndedError[E]) Error() string {
	return fmt.Sprintf("collector ended with reason '%s' after collecting %d item(s)", e.Reason, len(e.Collected))
}

func (e *EndedError[E]) Unwrap() error {
	return ErrCollectorEnded
}

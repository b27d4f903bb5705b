package places

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewRestaurants means the search found fewer than MinPoolSize places.
	ErrTooFewRestaurants = errors.New("too few restaurants, increase the distance")

	// ErrUnsupportedSize means the requested tournament size is not one of
	// AvailableCounts for the search.
	ErrUnsupportedSize = errors.New("tournament size not available for this search")
)

// StatusError is an upstream status other than OK or ZERO_RESULTS.
type StatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("places %s: %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("places %s: %s", e.Endpoint, e.Status)
}

package store

import "fmt"

// StationNotFoundError is returned by ResolveStation when a query
// matches no stop name, exactly or by substring.
type StationNotFoundError struct {
	Query string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("no station matching %q", e.Query)
}

package plan

import "errors"

// ErrCancelled is returned by Plan when the caller's context was
// observed cancelled before the search completed.
var ErrCancelled = errors.New("plan: search cancelled")

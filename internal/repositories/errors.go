package repositories

import "errors"

// ErrNotFound is returned when a record does not exist or is not visible to
// the requesting user. Handlers map it to 404 either way so that foreign
// record ids do not leak existence.
var ErrNotFound = errors.New("record not found")

package app

import (
	"errors"
	"fmt"
)

// ErrStaleCache is returned when clustering is invoked while the derived
// relations are out of date with the raw data. The caller recovers by
// running a build; the service never rebuilds implicitly, so stale-data bugs
// surface instead of being masked.
var ErrStaleCache = errors.New("derived data is out of date: run 'kinship build' first")

// ErrAlreadyBuilt is returned by a non-forced build of an already valid
// project.
var ErrAlreadyBuilt = errors.New("project is already built (use --force to rebuild)")

// ReferenceError reports a match, triangle or negative row that references a
// kit or segment id missing from the store. This is data corruption and
// aborts the running operation.
type ReferenceError struct {
	Relation string
	ID       int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: no %s with id %d", e.Relation, e.ID)
}

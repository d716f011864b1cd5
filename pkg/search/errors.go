package search

import "errors"

// ErrUnreachable is returned by the one-to-one searches when the target
// cannot be reached from the source. OneToManyHopLimit returns no error;
// it reports unsettled targets as WeightInf.
var ErrUnreachable = errors.New("search: target unreachable")

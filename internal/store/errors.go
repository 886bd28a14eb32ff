package store

import "errors"

// ErrNotFound indicates the referenced id does not exist in the collection.
var ErrNotFound = errors.New("record not found")

// ErrInvalidArgument indicates an out-of-range or blank value where a valid one was required.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDuplicateID indicates an id that is already taken in the collection.
var ErrDuplicateID = errors.New("duplicate id")

// ErrMalformedStore indicates a backing file that is not a valid collection.
var ErrMalformedStore = errors.New("malformed store")

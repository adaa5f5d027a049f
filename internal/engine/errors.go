package engine

import (
	"errors"
	"fmt"

	"pokehub/internal/catalog"
)

// LoadError is returned when the collection could not be fetched or parsed.
// It is shown to the user together with a retry action.
type LoadError struct {
	Msg string
	Err error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PersistError is returned by AddEntry when the persister rejected the
// updated collection. The entry is no longer part of the collection.
type PersistError struct {
	Entry catalog.Entry
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save %q: %v", e.Entry.Name, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ErrMalformedFavorites marks a stored favorites value that is not a JSON
// array of ids.
var ErrMalformedFavorites = errors.New("malformed favorites")

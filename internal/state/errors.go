package state

import "errors"

var (
	ErrNoStorage     = errors.New("state store requires a storage backend")
	ErrAlreadyLoaded = errors.New("initial data already loaded")
)

const nilStoreMsg = "state: method called on a nil *Store; create one with state.New and pass it to every consumer"

package domain

import "errors"

var (
	// ErrNotReady signals that the search engine failed to initialize.
	ErrNotReady = errors.New("engine not ready")
	// ErrPlaceNotFound signals a missing place.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrModelNotLoaded signals a missing or corrupt embedding model.
	ErrModelNotLoaded = errors.New("embedding model not loaded")
	// ErrEmptyCorpus signals that no reviews were available to index.
	ErrEmptyCorpus = errors.New("empty review corpus")
)

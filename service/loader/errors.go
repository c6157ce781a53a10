package loader

import "errors"

var (
	// ErrImageNotFound is returned when no manifest exists for a name.
	ErrImageNotFound = errors.New("loader: image not found")

	// ErrEntryNotRegistered is returned when a manifest names an entry that
	// was never registered.
	ErrEntryNotRegistered = errors.New("loader: entry not registered")

	// ErrInvalidImage is returned for manifests that fail validation.
	ErrInvalidImage = errors.New("loader: invalid image")
)

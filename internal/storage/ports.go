package storage

import (
	"context"
	"errors"

	"gradetracker/internal/core"
)

// ErrNotInitialized is returned by a backend used before it was opened.
var ErrNotInitialized = errors.New("storage not initialized")

// Ports for persistence adapters. Every backend stores the whole grade book
// as one snapshot: Load reads everything, Save overwrites everything.
type (
	Loader interface {
		// Load returns the persisted grade book, or an empty one when nothing
		// has been saved yet. Malformed persisted data is an error.
		Load(ctx context.Context) (core.Data, error)
	}

	Saver interface {
		// Save replaces the persisted grade book with d.
		Save(ctx context.Context, d core.Data) error
	}

	Repository interface {
		Loader
		Saver
	}
)

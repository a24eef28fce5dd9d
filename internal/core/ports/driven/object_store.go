package driven

import "context"

// ObjectStore is a path-addressed blob store. The GitHub-backed adapter is
// the production implementation; the cache layer sits on top of it.
type ObjectStore interface {
	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Get retrieves the object content at path.
	// Returns domain.ErrNotFound if nothing is stored there.
	Get(ctx context.Context, path string) ([]byte, error)

	// Put writes content at path, creating or overwriting.
	Put(ctx context.Context, path string, content []byte, message string) error

	// List returns the entry names directly under a directory path.
	List(ctx context.Context, path string) ([]string, error)
}

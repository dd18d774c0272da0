package ports

import "context"

// RevisionReader identifies the state of a source tree.
//
//go:generate mockgen -source=revision.go -destination=mocks/mock_revision.go -package=mocks
type RevisionReader interface {
	// Revision returns an identifier that changes whenever the tree at dir changes.
	// Paths matching one of the exclude patterns (relative to dir) are ignored.
	Revision(ctx context.Context, dir string, exclude []string) (string, error)
}

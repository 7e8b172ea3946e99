package lint

import (
	"context"

	"github.com/yaklabco/mdnames/pkg/mdast"
)

// Parser parses Markdown content into a FileSnapshot.
//
// Implementations must be deterministic for a given (path, content) pair,
// must not mutate content, and must not perform I/O.
type Parser interface {
	// Parse converts raw Markdown bytes into a FileSnapshot whose Root is
	// set and whose Meta has one entry per line. On error it returns nil
	// and no partial snapshot.
	Parse(ctx context.Context, path string, content []byte) (*mdast.FileSnapshot, error)
}

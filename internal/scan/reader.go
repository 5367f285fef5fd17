package scan

import (
	"context"
	"os"

	"github.com/ADMhS/CodeContext/internal/aggregate"
	"github.com/ADMhS/CodeContext/internal/types"
)

// Reader supplies snapshot file contents to the aggregator from the local
// filesystem. Each read checks the context first so a canceled run stops at
// the next file boundary.
type Reader struct{}

var _ aggregate.ContentReader = (*Reader)(nil)

// ReadFileText returns the entry's content as text, verbatim.
func (Reader) ReadFileText(ctx context.Context, entry types.FileEntry) (string, error) {
	if contextError := ctx.Err(); contextError != nil {
		return "", contextError
	}
	contentBytes, readError := os.ReadFile(entry.AbsolutePath)
	if readError != nil {
		return "", readError
	}
	return string(contentBytes), nil
}

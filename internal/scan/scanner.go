// Package scan captures the immutable file snapshot an export run operates on.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gocodewalker "github.com/boyter/gocodewalker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ADMhS/CodeContext/internal/types"
	"github.com/ADMhS/CodeContext/internal/utils"
)

const fileQueueCapacity = 100

// serviceFileNames are bookkeeping files that never belong in a snapshot:
// walker control files and this tool's own configuration.
var serviceFileNames = map[string]struct{}{
	utils.GitIgnoreFileName: {},
	utils.IgnoreFileName:    {},
	utils.ConfigFileName:    {},
}

// Scanner walks validated roots and produces snapshot entries. Ignore-file
// semantics (.gitignore, .ignore) come from the walker; explicit exclusion
// patterns are evaluated against each entry's path relative to its root.
type Scanner struct {
	ExcludePatterns []string
	UseGitignore    bool
	UseIgnoreFile   bool

	// SkipAbsolutePaths removes specific files from the snapshot, keyed by
	// cleaned absolute path. The export command registers its own output file
	// here so a run never captures itself.
	SkipAbsolutePaths map[string]struct{}

	Logger *zap.Logger
}

// Collect walks every root and returns the combined snapshot sorted by
// relative path. Paths are slash-separated and prefixed with their root's base
// name, so a snapshot of a single directory carries that directory's name as
// its only top-level segment. Entries whose relative paths collide across
// roots keep the first occurrence.
func (scanner *Scanner) Collect(ctx context.Context, roots []types.ValidatedPath) ([]types.FileEntry, error) {
	collected := make([]types.FileEntry, 0, fileQueueCapacity)
	for _, root := range roots {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		if !root.IsDir {
			if entry, include := scanner.fileRootEntry(root.AbsolutePath); include {
				collected = append(collected, entry)
			}
			continue
		}
		directoryEntries, collectError := scanner.collectDirectory(ctx, root)
		if collectError != nil {
			return nil, collectError
		}
		collected = append(collected, directoryEntries...)
	}

	sort.Slice(collected, func(firstIndex, secondIndex int) bool {
		return collected[firstIndex].RelativePath < collected[secondIndex].RelativePath
	})

	seenPaths := make(map[string]struct{}, len(collected))
	snapshot := collected[:0]
	for _, entry := range collected {
		if _, duplicate := seenPaths[entry.RelativePath]; duplicate {
			scanner.logger().Debug("dropping duplicate snapshot path", zap.String("path", entry.RelativePath))
			continue
		}
		seenPaths[entry.RelativePath] = struct{}{}
		snapshot = append(snapshot, entry)
	}
	return snapshot, nil
}

// collectDirectory walks one root. The walker streams discovered files over a
// channel from its own goroutine; the consumer filters and accumulates until
// the channel closes. A canceled context drains the channel without
// accumulating so the walker never blocks on a full queue.
func (scanner *Scanner) collectDirectory(ctx context.Context, root types.ValidatedPath) ([]types.FileEntry, error) {
	rootBaseName := filepath.Base(root.AbsolutePath)
	fileQueue := make(chan *gocodewalker.File, fileQueueCapacity)

	fileWalker := gocodewalker.NewFileWalker(root.AbsolutePath, fileQueue)
	fileWalker.IgnoreGitIgnore = !scanner.UseGitignore
	fileWalker.IgnoreIgnoreFile = !scanner.UseIgnoreFile
	fileWalker.SetErrorHandler(func(walkError error) bool {
		scanner.logger().Warn("file walker error", zap.String("root", root.AbsolutePath), zap.Error(walkError))
		return true
	})

	entries := make([]types.FileEntry, 0, fileQueueCapacity)
	group, groupContext := errgroup.WithContext(ctx)
	group.Go(func() error {
		return fileWalker.Start()
	})
	group.Go(func() error {
		for discoveredFile := range fileQueue {
			if groupContext.Err() != nil {
				continue
			}
			entry, include := scanner.directoryEntry(root.AbsolutePath, rootBaseName, discoveredFile.Location)
			if include {
				entries = append(entries, entry)
			}
		}
		return groupContext.Err()
	})
	if waitError := group.Wait(); waitError != nil {
		return nil, fmt.Errorf("walk %s: %w", root.AbsolutePath, waitError)
	}
	return entries, nil
}

// directoryEntry converts one walker hit into a snapshot entry, applying the
// skip list, the exclusion patterns, and the service-file filter.
func (scanner *Scanner) directoryEntry(rootPath, rootBaseName, absolutePath string) (types.FileEntry, bool) {
	if scanner.isSkippedPath(absolutePath) {
		return types.FileEntry{}, false
	}
	baseName := filepath.Base(absolutePath)
	if _, service := serviceFileNames[baseName]; service {
		return types.FileEntry{}, false
	}

	pathInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		scanner.logger().Warn("skipping unreadable entry", zap.String("path", absolutePath), zap.Error(statError))
		return types.FileEntry{}, false
	}
	if pathInformation.IsDir() {
		return types.FileEntry{}, false
	}

	relativeToRoot := utils.RelativePathOrSelf(absolutePath, rootPath)
	if utils.ShouldIgnoreByPath(relativeToRoot, scanner.ExcludePatterns) {
		return types.FileEntry{}, false
	}

	return types.FileEntry{
		RelativePath: rootBaseName + "/" + relativeToRoot,
		Name:         baseName,
		AbsolutePath: absolutePath,
		SizeBytes:    pathInformation.Size(),
		LastModified: utils.FormatTimestamp(pathInformation.ModTime()),
	}, true
}

// fileRootEntry captures a root that is itself a regular file. Explicitly
// selected files bypass the exclusion patterns; the skip list still applies.
func (scanner *Scanner) fileRootEntry(absolutePath string) (types.FileEntry, bool) {
	if scanner.isSkippedPath(absolutePath) {
		return types.FileEntry{}, false
	}
	pathInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		scanner.logger().Warn("skipping unreadable entry", zap.String("path", absolutePath), zap.Error(statError))
		return types.FileEntry{}, false
	}
	baseName := filepath.Base(absolutePath)
	return types.FileEntry{
		RelativePath: baseName,
		Name:         baseName,
		AbsolutePath: absolutePath,
		SizeBytes:    pathInformation.Size(),
		LastModified: utils.FormatTimestamp(pathInformation.ModTime()),
	}, true
}

func (scanner *Scanner) isSkippedPath(absolutePath string) bool {
	if len(scanner.SkipAbsolutePaths) == 0 {
		return false
	}
	_, skipped := scanner.SkipAbsolutePaths[filepath.Clean(absolutePath)]
	return skipped
}

func (scanner *Scanner) logger() *zap.Logger {
	if scanner.Logger != nil {
		return scanner.Logger
	}
	return zap.NewNop()
}

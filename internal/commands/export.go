// Package commands contains the core pipelines behind each CLI command.
package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ADMhS/CodeContext/internal/aggregate"
	"github.com/ADMhS/CodeContext/internal/pathtree"
	"github.com/ADMhS/CodeContext/internal/scan"
	"github.com/ADMhS/CodeContext/internal/tokenizer"
	"github.com/ADMhS/CodeContext/internal/types"
	"github.com/ADMhS/CodeContext/internal/utils"
)

// ExportOptions configures a single export run.
type ExportOptions struct {
	Roots           []types.ValidatedPath
	AllowList       aggregate.AllowList
	ExcludePatterns []string
	UseGitignore    bool
	UseIgnoreFile   bool

	// SkipAbsolutePaths removes specific files from the snapshot. The caller
	// registers the export target here so a run never captures its own output.
	SkipAbsolutePaths []string

	TokenCounter tokenizer.Counter
	Logger       *zap.Logger
}

// RunExport scans the input roots, renders the folder tree, and assembles the
// export document together with its summary envelope. The document is built
// from a single snapshot, so the tree section and the file blocks always
// describe the same set of files.
func RunExport(ctx context.Context, options ExportOptions) (*types.ExportOutput, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := &scan.Scanner{
		ExcludePatterns:   options.ExcludePatterns,
		UseGitignore:      options.UseGitignore,
		UseIgnoreFile:     options.UseIgnoreFile,
		SkipAbsolutePaths: cleanedPathSet(options.SkipAbsolutePaths),
		Logger:            logger,
	}
	entries, collectError := scanner.Collect(ctx, options.Roots)
	if collectError != nil {
		return nil, fmt.Errorf("collecting files: %w", collectError)
	}

	relativePaths := make([]string, 0, len(entries))
	var totalBytes int64
	for _, entry := range entries {
		relativePaths = append(relativePaths, entry.RelativePath)
		totalBytes += entry.SizeBytes
	}

	folderTree, buildError := pathtree.Build(relativePaths)
	if buildError != nil {
		return nil, fmt.Errorf("building folder tree: %w", buildError)
	}
	renderedTree := pathtree.Render(folderTree)

	aggregateResult, aggregateError := aggregate.Aggregate(ctx, entries, options.AllowList, renderedTree, &scan.Reader{})
	if aggregateError != nil {
		return nil, fmt.Errorf("assembling export document: %w", aggregateError)
	}

	exportOutput := &types.ExportOutput{
		Tree:         renderedTree,
		Document:     aggregateResult.Document,
		MatchedFiles: aggregateResult.MatchedCount,
		TotalFiles:   len(entries),
		TotalBytes:   totalBytes,
		TotalSize:    utils.FormatFileSize(totalBytes),
	}
	applyFileSummaries(exportOutput, entries, options, logger)
	return exportOutput, nil
}

// applyFileSummaries fills the per-file summaries for matched entries and,
// when a token counter is configured, the token accounting. The document
// total comes from counting the assembled document itself; per-file counts
// only feed the summaries. Token failures log a warning and never abort an
// export.
func applyFileSummaries(exportOutput *types.ExportOutput, entries []types.FileEntry, options ExportOptions, logger *zap.Logger) {
	var summaries []types.FileSummary
	var summedFileTokens int
	counted := false

	for _, entry := range entries {
		if !options.AllowList.Matches(entry.Name) {
			continue
		}
		summary := types.FileSummary{
			Path:      entry.RelativePath,
			Size:      utils.FormatFileSize(entry.SizeBytes),
			SizeBytes: entry.SizeBytes,
		}
		if options.TokenCounter != nil {
			tokenResult, tokenError := tokenizer.CountFile(options.TokenCounter, entry.AbsolutePath)
			if tokenError != nil {
				logger.Warn("failed to count tokens",
					zap.String("path", entry.RelativePath), zap.Error(tokenError))
			} else if tokenResult.Counted {
				summary.Tokens = tokenResult.Tokens
				summedFileTokens += tokenResult.Tokens
				counted = true
			}
		}
		summaries = append(summaries, summary)
	}
	exportOutput.Files = summaries

	if options.TokenCounter == nil || exportOutput.MatchedFiles == 0 {
		return
	}
	exportOutput.Model = options.TokenCounter.Name()
	documentTokens, documentError := options.TokenCounter.CountString(exportOutput.Document)
	if documentError != nil {
		logger.Warn("failed to count document tokens", zap.Error(documentError))
		if counted {
			exportOutput.Tokens = summedFileTokens
		}
		return
	}
	exportOutput.Tokens = documentTokens
}

func cleanedPathSet(paths []string) map[string]struct{} {
	if len(paths) == 0 {
		return nil
	}
	pathSet := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		pathSet[filepath.Clean(path)] = struct{}{}
	}
	return pathSet
}

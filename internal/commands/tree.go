package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ADMhS/CodeContext/internal/output"
	"github.com/ADMhS/CodeContext/internal/pathtree"
	"github.com/ADMhS/CodeContext/internal/scan"
	"github.com/ADMhS/CodeContext/internal/types"
)

// TreeOptions configures a tree run.
type TreeOptions struct {
	Roots           []types.ValidatedPath
	ExcludePatterns []string
	UseGitignore    bool
	UseIgnoreFile   bool
	Logger          *zap.Logger
}

// TreeResult carries both representations of a snapshot tree: the rendered
// ASCII form for raw output and the structured nodes for json and xml.
type TreeResult struct {
	Rendered   string
	Nodes      []*types.TreeOutputNode
	TotalFiles int
}

// RunTree scans the input roots and builds the snapshot tree.
func RunTree(ctx context.Context, options TreeOptions) (*TreeResult, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := &scan.Scanner{
		ExcludePatterns: options.ExcludePatterns,
		UseGitignore:    options.UseGitignore,
		UseIgnoreFile:   options.UseIgnoreFile,
		Logger:          logger,
	}
	entries, collectError := scanner.Collect(ctx, options.Roots)
	if collectError != nil {
		return nil, fmt.Errorf("collecting files: %w", collectError)
	}

	relativePaths := make([]string, 0, len(entries))
	for _, entry := range entries {
		relativePaths = append(relativePaths, entry.RelativePath)
	}
	folderTree, buildError := pathtree.Build(relativePaths)
	if buildError != nil {
		return nil, fmt.Errorf("building folder tree: %w", buildError)
	}

	return &TreeResult{
		Rendered:   pathtree.Render(folderTree),
		Nodes:      output.BuildTreeNodes(entries),
		TotalFiles: len(entries),
	}, nil
}

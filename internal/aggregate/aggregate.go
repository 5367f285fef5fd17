// Package aggregate assembles the export document from a snapshot of file
// entries, the rendered tree, and an allow-list of source file names.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ADMhS/CodeContext/internal/types"
)

const (
	treeSectionLabel = "Folder structure:"
	fileHeaderPrefix = "File Path: "

	sectionRuleWidth    = 50
	blockSpacerNewlines = 11
)

var (
	sectionRule = strings.Repeat("=", sectionRuleWidth)
	blockSpacer = strings.Repeat("\n", blockSpacerNewlines)
)

// AllowList decides which snapshot entries contribute content to the document.
// Comparison is literal and case-sensitive: no glob or regex semantics.
type AllowList struct {
	Suffixes   []string
	ExactNames []string
}

// DefaultAllowList matches the source file types the exporter ships for.
func DefaultAllowList() AllowList {
	return AllowList{
		Suffixes:   []string{".css", ".php", ".js", ".htaccess", ".html", ".ts", ".tsx", ".json"},
		ExactNames: []string{".htaccess"},
	}
}

// Matches reports whether a file name passes the allow-list.
func (allowList AllowList) Matches(fileName string) bool {
	for _, exactName := range allowList.ExactNames {
		if fileName == exactName {
			return true
		}
	}
	for _, suffix := range allowList.Suffixes {
		if strings.HasSuffix(fileName, suffix) {
			return true
		}
	}
	return false
}

// ContentReader supplies the text of a snapshot entry. Implementations own the
// underlying handles; the aggregator only consumes the returned text.
type ContentReader interface {
	ReadFileText(ctx context.Context, entry types.FileEntry) (string, error)
}

// Result carries the assembled document and the number of entries whose
// content it includes.
type Result struct {
	Document     string
	MatchedCount int
}

// Aggregate filters entries through the allow-list, reads each matched file
// sequentially, and assembles the export document around the rendered tree.
// Entries keep their given order in the document. An empty snapshot performs
// no work and returns an empty result. A failed read or a canceled context
// aborts the whole aggregation; no partial document is ever returned.
func Aggregate(ctx context.Context, entries []types.FileEntry, allowList AllowList, renderedTree string, reader ContentReader) (Result, error) {
	if len(entries) == 0 {
		return Result{}, nil
	}

	builder := &strings.Builder{}
	builder.WriteString(treeSectionLabel)
	builder.WriteString("\n")
	builder.WriteString(renderedTree)
	builder.WriteString("\n")
	builder.WriteString(sectionRule)
	builder.WriteString("\n\n")

	matchedCount := 0
	for _, entry := range entries {
		if contextError := ctx.Err(); contextError != nil {
			return Result{}, contextError
		}
		if !allowList.Matches(entry.Name) {
			continue
		}
		content, readError := reader.ReadFileText(ctx, entry)
		if readError != nil {
			return Result{}, fmt.Errorf("read %s: %w", entry.RelativePath, readError)
		}
		if matchedCount > 0 {
			builder.WriteString(blockSpacer)
		}
		writeFileBlock(builder, entry.RelativePath, content)
		matchedCount++
	}

	return Result{Document: builder.String(), MatchedCount: matchedCount}, nil
}

// writeFileBlock emits one file section: the header line, an underline sized
// to the header's rune width, then the content verbatim with no trailing
// separator.
func writeFileBlock(builder *strings.Builder, relativePath, content string) {
	builder.WriteString(fileHeaderPrefix)
	builder.WriteString(relativePath)
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", utf8.RuneCountInString(fileHeaderPrefix+relativePath)))
	builder.WriteString("\n")
	builder.WriteString(content)
}

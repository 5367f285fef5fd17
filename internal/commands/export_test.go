package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ADMhS/CodeContext/internal/aggregate"
	"github.com/ADMhS/CodeContext/internal/commands"
	"github.com/ADMhS/CodeContext/internal/types"
)

const expectedFixtureTree = "webapp\n" +
	"├── .htaccess\n" +
	"├── index.php\n" +
	"├── notes.md\n" +
	"└── src\n" +
	"    ├── app.ts\n" +
	"    └── styles\n" +
	"        └── site.css\n"

type runeCounter struct {
	model string
}

func (counter runeCounter) Name() string {
	return counter.model
}

func (counter runeCounter) CountString(input string) (int, error) {
	return utf8.RuneCountInString(input), nil
}

func writeExportFixture(t *testing.T) string {
	t.Helper()
	rootDir := filepath.Join(t.TempDir(), "webapp")
	fixtureFiles := map[string]string{
		"index.php":           "<?php echo 'home'; ?>\n",
		".htaccess":           "Deny from all\n",
		"notes.md":            "scratch\n",
		"src/app.ts":          "export const app = 1;\n",
		"src/styles/site.css": "body { margin: 0; }\n",
	}
	for relativePath, content := range fixtureFiles {
		absolutePath := filepath.Join(rootDir, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			t.Fatalf("create fixture directory: %v", err)
		}
		if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture file: %v", err)
		}
	}
	return rootDir
}

func fixtureRoots(rootDir string) []types.ValidatedPath {
	return []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}}
}

func TestRunExportBuildsDocument(t *testing.T) {
	rootDir := writeExportFixture(t)

	exportOutput, err := commands.RunExport(context.Background(), commands.ExportOptions{
		Roots:     fixtureRoots(rootDir),
		AllowList: aggregate.DefaultAllowList(),
	})
	if err != nil {
		t.Fatalf("RunExport error: %v", err)
	}

	if exportOutput.TotalFiles != 5 {
		t.Fatalf("expected 5 files in snapshot, got %d", exportOutput.TotalFiles)
	}
	if exportOutput.MatchedFiles != 4 {
		t.Fatalf("expected 4 matched files, got %d", exportOutput.MatchedFiles)
	}
	if exportOutput.Tree != expectedFixtureTree {
		t.Fatalf("unexpected tree:\n%s", exportOutput.Tree)
	}
	if !strings.HasPrefix(exportOutput.Document, "Folder structure:\n"+expectedFixtureTree+"\n"+strings.Repeat("=", 50)+"\n\n") {
		t.Fatalf("unexpected document preamble:\n%s", exportOutput.Document)
	}

	htaccessBlock := "File Path: webapp/.htaccess\n" +
		strings.Repeat("-", utf8.RuneCountInString("File Path: webapp/.htaccess")) +
		"\nDeny from all\n"
	if !strings.Contains(exportOutput.Document, htaccessBlock) {
		t.Fatalf("expected htaccess block in document:\n%s", exportOutput.Document)
	}
	if strings.Contains(exportOutput.Document, "scratch") {
		t.Fatalf("expected notes.md content to stay out of the document")
	}

	headerOrder := []string{
		"File Path: webapp/.htaccess",
		"File Path: webapp/index.php",
		"File Path: webapp/src/app.ts",
		"File Path: webapp/src/styles/site.css",
	}
	lastIndex := -1
	for _, header := range headerOrder {
		index := strings.Index(exportOutput.Document, header)
		if index < 0 {
			t.Fatalf("expected header %q in document", header)
		}
		if index < lastIndex {
			t.Fatalf("header %q out of order", header)
		}
		lastIndex = index
	}

	expectedSummaryPaths := []string{
		"webapp/.htaccess",
		"webapp/index.php",
		"webapp/src/app.ts",
		"webapp/src/styles/site.css",
	}
	if len(exportOutput.Files) != len(expectedSummaryPaths) {
		t.Fatalf("expected %d file summaries, got %d", len(expectedSummaryPaths), len(exportOutput.Files))
	}
	for position, expectedPath := range expectedSummaryPaths {
		if exportOutput.Files[position].Path != expectedPath {
			t.Fatalf("expected summary path %q, got %q", expectedPath, exportOutput.Files[position].Path)
		}
	}
	if exportOutput.TotalSize == "" {
		t.Fatalf("expected total size to be formatted")
	}
}

func TestRunExportRerunsAreIdentical(t *testing.T) {
	rootDir := writeExportFixture(t)
	options := commands.ExportOptions{
		Roots:     fixtureRoots(rootDir),
		AllowList: aggregate.DefaultAllowList(),
	}

	firstRun, firstErr := commands.RunExport(context.Background(), options)
	if firstErr != nil {
		t.Fatalf("RunExport error: %v", firstErr)
	}
	secondRun, secondErr := commands.RunExport(context.Background(), options)
	if secondErr != nil {
		t.Fatalf("RunExport error: %v", secondErr)
	}
	if firstRun.Document != secondRun.Document {
		t.Fatalf("expected identical documents across reruns")
	}
}

func TestRunExportSkipsOwnOutput(t *testing.T) {
	rootDir := writeExportFixture(t)
	outputPath := filepath.Join(rootDir, "project_export.txt")
	if err := os.WriteFile(outputPath, []byte("previous export"), 0o644); err != nil {
		t.Fatalf("write previous export: %v", err)
	}

	exportOutput, err := commands.RunExport(context.Background(), commands.ExportOptions{
		Roots:             fixtureRoots(rootDir),
		AllowList:         aggregate.DefaultAllowList(),
		SkipAbsolutePaths: []string{outputPath},
	})
	if err != nil {
		t.Fatalf("RunExport error: %v", err)
	}
	if exportOutput.TotalFiles != 5 {
		t.Fatalf("expected previous export to be skipped, got %d files", exportOutput.TotalFiles)
	}
	if strings.Contains(exportOutput.Tree, "project_export.txt") {
		t.Fatalf("expected own output to stay out of the tree:\n%s", exportOutput.Tree)
	}
}

func TestRunExportEmptyDirectory(t *testing.T) {
	rootDir := filepath.Join(t.TempDir(), "empty")
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		t.Fatalf("create empty root: %v", err)
	}

	exportOutput, err := commands.RunExport(context.Background(), commands.ExportOptions{
		Roots:     fixtureRoots(rootDir),
		AllowList: aggregate.DefaultAllowList(),
	})
	if err != nil {
		t.Fatalf("RunExport error: %v", err)
	}
	if exportOutput.TotalFiles != 0 || exportOutput.MatchedFiles != 0 {
		t.Fatalf("expected empty snapshot, got %+v", exportOutput)
	}
	if exportOutput.Document != "" || exportOutput.Tree != "" {
		t.Fatalf("expected empty document for empty snapshot")
	}
	if len(exportOutput.Files) != 0 {
		t.Fatalf("expected no file summaries, got %d", len(exportOutput.Files))
	}
}

func TestRunExportCountsTokens(t *testing.T) {
	rootDir := writeExportFixture(t)

	exportOutput, err := commands.RunExport(context.Background(), commands.ExportOptions{
		Roots:        fixtureRoots(rootDir),
		AllowList:    aggregate.DefaultAllowList(),
		TokenCounter: runeCounter{model: "stub-model"},
	})
	if err != nil {
		t.Fatalf("RunExport error: %v", err)
	}
	if exportOutput.Model != "stub-model" {
		t.Fatalf("expected counter model in envelope, got %q", exportOutput.Model)
	}
	if exportOutput.Tokens != utf8.RuneCountInString(exportOutput.Document) {
		t.Fatalf("expected document token total %d, got %d",
			utf8.RuneCountInString(exportOutput.Document), exportOutput.Tokens)
	}
	if exportOutput.Files[0].Tokens != utf8.RuneCountInString("Deny from all\n") {
		t.Fatalf("unexpected per-file tokens %d", exportOutput.Files[0].Tokens)
	}
}

func TestRunExportCanceledContext(t *testing.T) {
	rootDir := writeExportFixture(t)
	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := commands.RunExport(canceledContext, commands.ExportOptions{
		Roots:     fixtureRoots(rootDir),
		AllowList: aggregate.DefaultAllowList(),
	}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

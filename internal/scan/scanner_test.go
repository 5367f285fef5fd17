package scan_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ADMhS/CodeContext/internal/scan"
	"github.com/ADMhS/CodeContext/internal/types"
)

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture file: %v", err)
	}
}

func relativePaths(entries []types.FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.RelativePath)
	}
	return paths
}

func assertPathsEqual(t *testing.T, actual, expected []string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Fatalf("expected paths %v, got %v", expected, actual)
	}
	for position := range expected {
		if actual[position] != expected[position] {
			t.Fatalf("expected paths %v, got %v", expected, actual)
		}
	}
}

func TestCollectPrefixesRootBaseNameAndSorts(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, "zeta.txt"), "z")
	writeFixtureFile(t, filepath.Join(rootDir, "alpha.txt"), "a")
	writeFixtureFile(t, filepath.Join(rootDir, "sub", "inner.js"), "i")

	scanner := &scan.Scanner{}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{
		rootBase + "/alpha.txt",
		rootBase + "/sub/inner.js",
		rootBase + "/zeta.txt",
	})
	for _, entry := range entries {
		if entry.SizeBytes != 1 {
			t.Fatalf("expected recorded size 1 for %s, got %d", entry.RelativePath, entry.SizeBytes)
		}
		if entry.LastModified == "" {
			t.Fatalf("expected last modified timestamp for %s", entry.RelativePath)
		}
	}
}

func TestCollectIncludesDotfiles(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, ".htaccess"), "Deny from all")

	scanner := &scan.Scanner{}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{rootBase + "/.htaccess"})
}

func TestCollectAppliesExcludePatterns(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, "keep.js"), "k")
	writeFixtureFile(t, filepath.Join(rootDir, "vendor", "dep.js"), "d")
	writeFixtureFile(t, filepath.Join(rootDir, "debug.log"), "l")

	scanner := &scan.Scanner{ExcludePatterns: []string{"vendor/", "*.log"}}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{rootBase + "/keep.js"})
}

func TestCollectSkipsServiceFiles(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, "kept.ts"), "k")
	writeFixtureFile(t, filepath.Join(rootDir, ".gitignore"), "")
	writeFixtureFile(t, filepath.Join(rootDir, ".codecontext.yaml"), "export:\n")

	scanner := &scan.Scanner{}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{rootBase + "/kept.ts"})
}

func TestCollectHonorsGitignore(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, ".gitignore"), "*.log\n")
	writeFixtureFile(t, filepath.Join(rootDir, "keep.js"), "k")
	writeFixtureFile(t, filepath.Join(rootDir, "drop.log"), "d")

	scanner := &scan.Scanner{UseGitignore: true}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{rootBase + "/keep.js"})
}

func TestCollectSingleFileRoot(t *testing.T) {
	rootDir := t.TempDir()
	filePath := filepath.Join(rootDir, "standalone.php")
	writeFixtureFile(t, filePath, "<?php")

	scanner := &scan.Scanner{}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: filePath, IsDir: false}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{"standalone.php"})
	if entries[0].AbsolutePath != filePath {
		t.Fatalf("expected absolute path %s, got %s", filePath, entries[0].AbsolutePath)
	}
}

func TestCollectSkipAbsolutePaths(t *testing.T) {
	rootDir := t.TempDir()
	rootBase := filepath.Base(rootDir)
	writeFixtureFile(t, filepath.Join(rootDir, "kept.css"), "k")
	exportPath := filepath.Join(rootDir, "project_export.txt")
	writeFixtureFile(t, exportPath, "stale export")

	scanner := &scan.Scanner{SkipAbsolutePaths: map[string]struct{}{filepath.Clean(exportPath): {}}}
	entries, collectError := scanner.Collect(context.Background(), []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if collectError != nil {
		t.Fatalf("Collect error: %v", collectError)
	}

	assertPathsEqual(t, relativePaths(entries), []string{rootBase + "/kept.css"})
}

func TestCollectCanceledContext(t *testing.T) {
	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()

	rootDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(rootDir, "a.js"), "a")

	scanner := &scan.Scanner{}
	_, collectError := scanner.Collect(canceledContext, []types.ValidatedPath{{AbsolutePath: rootDir, IsDir: true}})
	if !errors.Is(collectError, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", collectError)
	}
}

func TestReaderReadFileText(t *testing.T) {
	rootDir := t.TempDir()
	filePath := filepath.Join(rootDir, "content.ts")
	writeFixtureFile(t, filePath, "export const x = 1\n")

	reader := scan.Reader{}
	content, readError := reader.ReadFileText(context.Background(), types.FileEntry{AbsolutePath: filePath})
	if readError != nil {
		t.Fatalf("ReadFileText error: %v", readError)
	}
	if content != "export const x = 1\n" {
		t.Fatalf("unexpected content %q", content)
	}

	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()
	if _, canceledError := reader.ReadFileText(canceledContext, types.FileEntry{AbsolutePath: filePath}); !errors.Is(canceledError, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", canceledError)
	}

	if _, missingError := reader.ReadFileText(context.Background(), types.FileEntry{AbsolutePath: filepath.Join(rootDir, "missing.ts")}); missingError == nil {
		t.Fatalf("expected error for missing file")
	}
}

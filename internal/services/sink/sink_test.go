package sink_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ADMhS/CodeContext/internal/services/sink"
)

const sampleDocument = "Folder structure:\nproject\n└── app.js\n"

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.err != nil {
		return copier.err
	}
	copier.copied = append(copier.copied, text)
	return nil
}

func TestFileSinkWritesDocument(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "project_export.txt")
	fileSink := &sink.FileSink{Path: targetPath}

	if err := fileSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}

	written, readErr := os.ReadFile(targetPath)
	if readErr != nil {
		t.Fatalf("read written document: %v", readErr)
	}
	if string(written) != sampleDocument {
		t.Fatalf("expected document %q, got %q", sampleDocument, string(written))
	}
}

func TestFileSinkOverwritesSilentlyByDefault(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "project_export.txt")
	if err := os.WriteFile(targetPath, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed existing export: %v", err)
	}

	fileSink := &sink.FileSink{Path: targetPath}
	if err := fileSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}

	written, readErr := os.ReadFile(targetPath)
	if readErr != nil {
		t.Fatalf("read written document: %v", readErr)
	}
	if string(written) != sampleDocument {
		t.Fatalf("expected overwritten document, got %q", string(written))
	}
}

func TestFileSinkPromptConfirmsOverwrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "custom.txt")
	if err := os.WriteFile(targetPath, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed existing export: %v", err)
	}

	var promptBuffer bytes.Buffer
	fileSink := &sink.FileSink{
		Path:             targetPath,
		ConfirmOverwrite: true,
		PromptInput:      strings.NewReader("y\n"),
		PromptOutput:     &promptBuffer,
	}

	if err := fileSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if !strings.Contains(promptBuffer.String(), targetPath) {
		t.Fatalf("expected prompt to name target, got %q", promptBuffer.String())
	}

	written, _ := os.ReadFile(targetPath)
	if string(written) != sampleDocument {
		t.Fatalf("expected overwritten document, got %q", string(written))
	}
}

func TestFileSinkPromptDeclineKeepsFile(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "custom.txt")
	if err := os.WriteFile(targetPath, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed existing export: %v", err)
	}

	fileSink := &sink.FileSink{
		Path:             targetPath,
		ConfirmOverwrite: true,
		PromptInput:      strings.NewReader("\n"),
		PromptOutput:     &bytes.Buffer{},
	}

	if err := fileSink.Deliver(sampleDocument); err == nil {
		t.Fatalf("expected refusal error")
	}

	written, _ := os.ReadFile(targetPath)
	if string(written) != "previous run" {
		t.Fatalf("expected original content preserved, got %q", string(written))
	}
}

func TestFileSinkForceSkipsPrompt(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "custom.txt")
	if err := os.WriteFile(targetPath, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed existing export: %v", err)
	}

	fileSink := &sink.FileSink{
		Path:             targetPath,
		Force:            true,
		ConfirmOverwrite: true,
	}
	if err := fileSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
}

func TestStdoutSinkWritesVerbatim(t *testing.T) {
	var outputBuffer bytes.Buffer
	stdoutSink := &sink.StdoutSink{Writer: &outputBuffer}

	if err := stdoutSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if outputBuffer.String() != sampleDocument {
		t.Fatalf("expected verbatim document, got %q", outputBuffer.String())
	}
}

func TestClipboardSinkCopiesDocument(t *testing.T) {
	copier := &recordingCopier{}
	clipboardSink := &sink.ClipboardSink{Copier: copier}

	if err := clipboardSink.Deliver(sampleDocument); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if len(copier.copied) != 1 || copier.copied[0] != sampleDocument {
		t.Fatalf("expected copied document, got %v", copier.copied)
	}
}

func TestClipboardSinkWrapsCopyError(t *testing.T) {
	copyFailure := errors.New("no clipboard available")
	clipboardSink := &sink.ClipboardSink{Copier: &recordingCopier{err: copyFailure}}

	err := clipboardSink.Deliver(sampleDocument)
	if err == nil || !errors.Is(err, copyFailure) {
		t.Fatalf("expected wrapped copy error, got %v", err)
	}
}

func TestSinkDescriptions(t *testing.T) {
	fileSink := &sink.FileSink{Path: "project_export.txt"}
	if description := fileSink.Describe(); !strings.Contains(description, "project_export.txt") {
		t.Fatalf("expected file description to name path, got %q", description)
	}
	if description := (&sink.StdoutSink{}).Describe(); description != "stdout" {
		t.Fatalf("unexpected stdout description %q", description)
	}
	if description := (&sink.ClipboardSink{}).Describe(); description != "clipboard" {
		t.Fatalf("unexpected clipboard description %q", description)
	}
}

package sink

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemCopier implements Copier using github.com/atotto/clipboard.
type SystemCopier struct{}

// Copy writes text to the system clipboard.
func (SystemCopier) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardSink copies documents to the system clipboard.
type ClipboardSink struct {
	Copier Copier
}

// Deliver copies the document, defaulting to the system clipboard.
func (clipboardSink *ClipboardSink) Deliver(document string) error {
	copier := clipboardSink.Copier
	if copier == nil {
		copier = SystemCopier{}
	}
	if copyErr := copier.Copy(document); copyErr != nil {
		return fmt.Errorf("copy export to clipboard: %w", copyErr)
	}
	return nil
}

// Describe names the destination for log messages.
func (clipboardSink *ClipboardSink) Describe() string {
	return "clipboard"
}

var _ Copier = SystemCopier{}
var _ Sink = (*ClipboardSink)(nil)

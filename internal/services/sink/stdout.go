package sink

import (
	"fmt"
	"io"
	"os"
)

// StdoutSink writes documents verbatim to the configured writer so piped
// output stays byte-identical to the persisted document.
type StdoutSink struct {
	Writer io.Writer
}

// Deliver writes the document to the writer, defaulting to standard output.
func (stdoutSink *StdoutSink) Deliver(document string) error {
	writer := stdoutSink.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if _, writeErr := io.WriteString(writer, document); writeErr != nil {
		return fmt.Errorf("write export to stdout: %w", writeErr)
	}
	return nil
}

// Describe names the destination for log messages.
func (stdoutSink *StdoutSink) Describe() string {
	return "stdout"
}

var _ Sink = (*StdoutSink)(nil)

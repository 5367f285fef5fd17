package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const outputFileMode = 0o644

// FileSink persists documents to a file path. The default export target is
// overwritten silently so repeated runs refresh it in place; when
// ConfirmOverwrite is set an existing target is only replaced after an
// interactive confirmation or with Force.
type FileSink struct {
	Path             string
	Force            bool
	ConfirmOverwrite bool
	PromptInput      io.Reader
	PromptOutput     io.Writer
}

// Deliver writes the document to the configured path.
func (fileSink *FileSink) Deliver(document string) error {
	if fileSink.ConfirmOverwrite && !fileSink.Force {
		if _, statErr := os.Stat(fileSink.Path); statErr == nil {
			confirmed, confirmErr := fileSink.confirmOverwrite()
			if confirmErr != nil {
				return confirmErr
			}
			if !confirmed {
				return fmt.Errorf("refusing to overwrite %s", fileSink.Path)
			}
		}
	}
	if writeErr := os.WriteFile(fileSink.Path, []byte(document), outputFileMode); writeErr != nil {
		return fmt.Errorf("write export to %s: %w", fileSink.Path, writeErr)
	}
	return nil
}

// Describe names the destination for log messages.
func (fileSink *FileSink) Describe() string {
	return fmt.Sprintf("file %s", fileSink.Path)
}

func (fileSink *FileSink) confirmOverwrite() (bool, error) {
	promptInput := fileSink.PromptInput
	if promptInput == nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return false, fmt.Errorf("%s already exists; pass --force to overwrite", fileSink.Path)
		}
		promptInput = os.Stdin
	}
	promptOutput := fileSink.PromptOutput
	if promptOutput == nil {
		promptOutput = os.Stderr
	}
	fmt.Fprintf(promptOutput, "overwrite %s? [y/N] ", fileSink.Path)
	answerLine, readErr := bufio.NewReader(promptInput).ReadString('\n')
	if readErr != nil && answerLine == "" {
		return false, fmt.Errorf("read overwrite confirmation: %w", readErr)
	}
	answer := strings.ToLower(strings.TrimSpace(answerLine))
	return answer == "y" || answer == "yes", nil
}

var _ Sink = (*FileSink)(nil)

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// TerminalPrompter implements secondary.Prompter on a line-oriented terminal.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter. in should be shared with any other
// reader of the same stream.
func NewTerminalPrompter(in *bufio.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// Ask prints question and returns the raw line, newline included.
// End of input yields whatever was typed before it.
func (p *TerminalPrompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return line, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return line, nil
}

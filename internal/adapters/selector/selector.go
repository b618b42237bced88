// Package selector implements interactive single-choice pickers.
package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/example/devkit/internal/ports/secondary"
	"github.com/example/devkit/internal/process"
)

// New picks the implementation once: fzf when it is installed and stdin is a
// terminal, otherwise a numbered prompt on in/errOut.
func New(proc process.Manager, stdin *os.File, in io.Reader, errOut io.Writer) secondary.Selector {
	if _, err := proc.LookPath("fzf"); err == nil && isatty.IsTerminal(stdin.Fd()) {
		return NewFuzzySelector(proc)
	}
	return NewNumberedSelector(in, errOut)
}

// FuzzySelector delegates to fzf.
type FuzzySelector struct {
	proc process.Manager
}

// NewFuzzySelector creates an fzf-backed selector. proc should pass stderr
// through so fzf can draw its interface.
func NewFuzzySelector(proc process.Manager) *FuzzySelector {
	return &FuzzySelector{proc: proc}
}

// Select feeds candidates to fzf. Escape or no match yields an empty choice.
func (s *FuzzySelector) Select(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	input := strings.NewReader(strings.Join(candidates, "\n") + "\n")
	out, err := s.proc.RunWithInput(ctx, "fzf", input, "--height=40%", "--reverse", "--prompt=client> ")
	if err != nil {
		switch process.ExitCode(err) {
		case 1, 130:
			return "", nil
		}
		return "", fmt.Errorf("fzf failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// NumberedSelector lists candidates with 1-based indexes and reads one line.
type NumberedSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewNumberedSelector renders on out (normally stderr) and reads from in.
// Pass the same *bufio.Reader the confirmation prompts use so no input is
// buffered away from them.
func NewNumberedSelector(in io.Reader, out io.Writer) *NumberedSelector {
	return &NumberedSelector{in: bufio.NewReader(in), out: out}
}

// Select returns the candidate at the entered index. Anything that is not a
// number in range yields an empty choice.
func (s *NumberedSelector) Select(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	for i, c := range candidates {
		fmt.Fprintf(s.out, "%3d) %s\n", i+1, c)
	}
	fmt.Fprint(s.out, "Select a client by number: ")

	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(candidates) {
		return "", nil
	}
	return candidates[n-1], nil
}

var (
	_ secondary.Selector = (*FuzzySelector)(nil)
	_ secondary.Selector = (*NumberedSelector)(nil)
)

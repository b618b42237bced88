package secondary

import "context"

// Selector defines the secondary port for choosing one item interactively.
// An empty result with a nil error means nothing was chosen.
type Selector interface {
	Select(ctx context.Context, candidates []string) (string, error)
}

// Prompter defines the secondary port for asking the operator a question.
type Prompter interface {
	// Ask shows question and returns one line of input, line ending included
	// when present. io.EOF is reported as an empty answer.
	Ask(ctx context.Context, question string) (string, error)
}

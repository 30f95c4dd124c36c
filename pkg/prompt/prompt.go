// Package prompt describes questions a provisioner needs answered and the
// prompters that answer them.
//
// Questions are plain values: building one never touches a terminal. The
// orchestrator decides whether and how to ask.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// QuestionType names the kind of input a question expects.
type QuestionType string

// TypeList asks for exactly one of a fixed set of choices.
const TypeList QuestionType = "list"

// MaxAttempts bounds how often Terminal re-asks after invalid input.
const MaxAttempts = 3

var (
	// ErrAnswerRequired is returned when a question must be asked but the
	// prompter cannot ask it.
	ErrAnswerRequired = errors.New("answer required")
	// ErrInvalidAnswer is returned when input never matched a choice.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// Answers maps question names to the chosen value.
type Answers map[string]string

// Clone returns an independent copy; a nil receiver yields an empty map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Has reports whether name has been answered.
func (a Answers) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Choice is one selectable option.
type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Question is a declarative request for a single answer.
type Question struct {
	Type    QuestionType `json:"type"`
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Choices []Choice     `json:"choices"`
	// When reports whether the question still needs asking. Nil means always.
	When func(Answers) bool `json:"-"`
}

// ShouldAsk evaluates When against the answers collected so far.
func (q Question) ShouldAsk(a Answers) bool {
	if q.When == nil {
		return true
	}
	return q.When(a)
}

// Valid reports whether value is one of the question's choices.
func (q Question) Valid(value string) bool {
	for _, c := range q.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Prompter answers a single question.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// Resolve asks every question whose When condition holds, in order, and
// returns the combined answers. The answers argument is not modified.
func Resolve(ctx context.Context, p Prompter, questions []Question, answers Answers) (Answers, error) {
	out := answers.Clone()
	for _, q := range questions {
		if !q.ShouldAsk(out) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := p.Ask(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", q.Name, err)
		}
		out[q.Name] = v
	}
	return out, nil
}

// NonInteractive refuses to ask anything.
type NonInteractive struct{}

// Ask always fails with ErrAnswerRequired.
func (NonInteractive) Ask(_ context.Context, q Question) (string, error) {
	return "", fmt.Errorf("%w: %s (pass --answer %s=<value> or configure presets)", ErrAnswerRequired, q.Name, q.Name)
}

// Terminal asks on a line-oriented terminal with a numbered menu.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewTerminal creates a Terminal reading from r and writing menus to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{In: r, Out: w}
}

// Ask prints the choices and reads either a number or a choice value.
func (t *Terminal) Ask(ctx context.Context, q Question) (string, error) {
	if len(q.Choices) == 0 {
		return "", fmt.Errorf("%w: question %q has no choices", ErrInvalidAnswer, q.Name)
	}
	if t.reader == nil {
		t.reader = bufio.NewReader(t.In)
	}

	fmt.Fprintf(t.Out, "\n%s\n", q.Message)
	for i, c := range q.Choices {
		fmt.Fprintf(t.Out, "  %d) %s\n", i+1, c.Name)
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(t.Out, "Enter number [1-%d]: ", len(q.Choices))

		line, err := t.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: input closed before %q was answered", ErrAnswerRequired, q.Name)
			}
			return "", fmt.Errorf("reading selection: %w", err)
		}

		if v, ok := match(q.Choices, strings.TrimSpace(line)); ok {
			return v, nil
		}
		fmt.Fprintf(t.Out, "Invalid selection %q.\n", strings.TrimSpace(line))
	}
	return "", fmt.Errorf("%w: no valid selection for %q after %d attempts", ErrInvalidAnswer, q.Name, MaxAttempts)
}

func match(choices []Choice, input string) (string, bool) {
	if input == "" {
		return "", false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1].Value, true
		}
		return "", false
	}
	for _, c := range choices {
		if strings.EqualFold(c.Value, input) || strings.EqualFold(c.Name, input) {
			return c.Value, true
		}
	}
	return "", false
}

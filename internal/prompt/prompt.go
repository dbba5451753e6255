// Package prompt collects answers to a kit's declarative question list. The
// terminal implementation renders numbered menus and y/n confirmations on a
// reader/writer pair; Defaults answers every question non-interactively.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
)

// Prompter asks a list of questions and returns answers keyed by question name.
type Prompter interface {
	Ask(ctx context.Context, questions []manifest.Question) (map[string]interface{}, error)
}

// Terminal prompts on r/w.
type Terminal struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewTerminal returns a Terminal reading answers from r and writing prompts to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(r), w: w}
}

// Ask walks questions in order. Empty input selects the question's default.
func (t *Terminal) Ask(ctx context.Context, questions []manifest.Question) (map[string]interface{}, error) {
	answers := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			v   interface{}
			err error
		)
		switch q.Type {
		case manifest.QuestionConfirm:
			v, err = t.confirm(q)
		case manifest.QuestionList:
			v, err = t.selectOne(q)
		default:
			v, err = t.input(q)
		}
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", q.Name, err)
		}
		answers[q.Name] = v
	}
	return answers, nil
}

func (t *Terminal) input(q manifest.Question) (interface{}, error) {
	def := ""
	if q.Default != nil {
		def = fmt.Sprint(q.Default)
	}
	if def != "" {
		fmt.Fprintf(t.w, "? %s (%s) ", message(q), def)
	} else {
		fmt.Fprintf(t.w, "? %s ", message(q))
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (t *Terminal) confirm(q manifest.Question) (interface{}, error) {
	def, _ := q.Default.(bool)
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(t.w, "? %s (%s) ", message(q), hint)

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return nil, fmt.Errorf("invalid answer %q: expected y or n", line)
	}
}

func (t *Terminal) selectOne(q manifest.Question) (interface{}, error) {
	if len(q.Choices) == 0 {
		return nil, fmt.Errorf("no choices")
	}

	defIdx := 0
	if s, ok := q.Default.(string); ok {
		for i, c := range q.Choices {
			if c == s {
				defIdx = i
			}
		}
	}

	fmt.Fprintf(t.w, "\n%s\n", message(q))
	for i, c := range q.Choices {
		fmt.Fprintf(t.w, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(t.w, "Enter number [1-%d] (%d): ", len(q.Choices), defIdx+1)

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return q.Choices[defIdx], nil
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(q.Choices) {
		return nil, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(q.Choices))
	}
	return q.Choices[num-1], nil
}

// readLine returns the next trimmed line. EOF after partial input counts as a
// line; EOF with nothing read is an error.
func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func message(q manifest.Question) string {
	if q.Message != "" {
		return q.Message
	}
	return q.Name
}

// Defaults answers every question with its default value without reading input.
type Defaults struct{}

// Ask implements Prompter.
func (Defaults) Ask(_ context.Context, questions []manifest.Question) (map[string]interface{}, error) {
	answers := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		switch q.Type {
		case manifest.QuestionConfirm:
			def, _ := q.Default.(bool)
			answers[q.Name] = def
		case manifest.QuestionList:
			if s, ok := q.Default.(string); ok {
				answers[q.Name] = s
			} else if len(q.Choices) > 0 {
				answers[q.Name] = q.Choices[0]
			}
		default:
			if q.Default != nil {
				answers[q.Name] = fmt.Sprint(q.Default)
			} else {
				answers[q.Name] = ""
			}
		}
	}
	return answers, nil
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ErrInvalidChoice is returned when an answer is not one of the options.
var ErrInvalidChoice = errors.New("invalid choice")

// Prompter asks questions on a terminal. Reads respect context
// cancellation so Ctrl-C never leaves a command stuck on input.
type Prompter struct {
	reader  *bufio.Reader
	writer  io.Writer
	readMu  sync.Mutex
	results chan lineResult
}

type lineResult struct {
	err   error
	value string
}

// NewPrompter creates a Prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// ReadLine reads one trimmed line. A read abandoned by cancellation is
// delivered to the next call rather than lost.
func (p *Prompter) ReadLine(ctx context.Context) (string, error) {
	p.readMu.Lock()
	if p.results == nil {
		p.results = make(chan lineResult, 1)
		go func(results chan<- lineResult) {
			value, err := p.reader.ReadString('\n')
			if errors.Is(err, io.EOF) && value != "" {
				err = nil
			}
			results <- lineResult{value: value, err: err}
		}(p.results)
	}
	results := p.results
	p.readMu.Unlock()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-results:
		p.readMu.Lock()
		p.results = nil
		p.readMu.Unlock()
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Ask prints question and returns the answer, or def when it is empty.
func (p *Prompter) Ask(ctx context.Context, question, def string) (string, error) {
	label := question
	if def != "" {
		label = fmt.Sprintf("%s [%s]", question, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Choose lists options numbered from 1 and returns the chosen index.
func (p *Prompter) Choose(ctx context.Context, question string, options []string) (int, error) {
	for i, opt := range options {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, opt); err != nil {
			return -1, fmt.Errorf("failed to write option: %w", err)
		}
	}

	answer, err := p.Ask(ctx, question, "")
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return -1, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
	}
	return n - 1, nil
}

// Package app runs a single dillma query: it sends the query and piped input
// to the chat model and writes the response to stdout.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/dillma/internal/llm"
	"github.com/mark3labs/dillma/internal/termsafe"
	"github.com/mark3labs/dillma/internal/ui"
)

// ErrMissingQuery is returned by Run when no query was supplied.
var ErrMissingQuery = errors.New("a query is required either as a positional argument or with -q/--query")

// debugHeader precedes the hex dump printed in debug mode.
const debugHeader = "* Debug: Control characters detected in response:"

// App executes one query per Run call. It holds no state beyond its Options.
type App struct {
	opts   Options
	logger *log.Logger
}

// New creates an App. A nil Logger or Stdout discards that output.
func New(opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{opts: opts, logger: logger}
}

// Query sends query as the system prompt and input as the user message and
// returns the trimmed response text.
func (a *App) Query(ctx context.Context, query, input string) (string, error) {
	if a.opts.Model == nil {
		return "", errors.New("no chat model configured")
	}

	a.logger.Debug("sending completion request",
		"model", a.opts.ModelName,
		"query_len", len(query),
		"input_len", len(input))

	var res *llm.Result
	call := func() error {
		var err error
		res, err = llm.Complete(ctx, a.opts.Model, query, input)
		return err
	}

	var err error
	if a.opts.Spinner != nil {
		err = a.opts.Spinner(call)
	} else {
		err = call()
	}
	if err != nil {
		return "", err
	}

	if res.Usage != nil {
		a.logger.Debug("completion finished",
			"finish_reason", res.FinishReason,
			"prompt_tokens", res.Usage.PromptTokens,
			"completion_tokens", res.Usage.CompletionTokens,
			"total_tokens", res.Usage.TotalTokens)
	} else {
		a.logger.Debug("completion finished", "finish_reason", res.FinishReason)
	}
	return res.Content, nil
}

// Run performs the whole query: validation, the completion call, the debug
// hex dump and output rendering.
//
// A failed completion is printed as "An error occurred: ..." and Run returns
// nil, so the exit status does not reveal the failure. With StrictErrors the
// error is returned instead and nothing is written to stdout.
func (a *App) Run(ctx context.Context, query, input string) error {
	if query == "" {
		return ErrMissingQuery
	}

	result, err := a.Query(ctx, query, input)
	if err != nil {
		if a.opts.StrictErrors {
			return fmt.Errorf("completion request failed: %w", err)
		}
		a.logger.Warn("completion request failed", "err", err)
		result = fmt.Sprintf("An error occurred: %v", err)
	}

	return a.write(result)
}

// write prints result to stdout according to the output options.
func (a *App) write(result string) error {
	out := a.opts.Stdout

	if a.opts.Debug && termsafe.ContainsControl(result) {
		if _, err := fmt.Fprintf(out, "%s\n%s\n\n", debugHeader, termsafe.HexDump(result)); err != nil {
			return fmt.Errorf("failed to write debug output: %w", err)
		}
	}

	switch {
	case a.opts.ShowNonPrintable:
		result = termsafe.Render(result)
	case a.opts.Markdown && a.opts.MarkdownWidth > 0:
		rendered, err := ui.RenderMarkdown(result, a.opts.MarkdownWidth)
		if err != nil {
			a.logger.Warn("printing raw response", "err", err)
		} else {
			result = rendered
		}
	}

	if _, err := fmt.Fprintln(out, result); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// ReadInput returns the supplementary text piped into the program. When
// stdin is a terminal there is nothing to read and "" is returned.
func ReadInput(r io.Reader, isTerminal bool) (string, error) {
	if isTerminal || r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

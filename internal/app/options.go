package app

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/model"
)

// Options configures an App. It is built once at startup from flags and
// config and never modified afterwards.
type Options struct {
	// Model answers the query. *openai.ChatModel from eino-ext satisfies
	// this interface; tests supply stubs.
	Model model.BaseChatModel

	// ModelName is used for logging only.
	ModelName string

	// Debug prints a hex dump of the response before it when the response
	// contains control characters.
	Debug bool

	// ShowNonPrintable renders control characters in caret/hex notation.
	ShowNonPrintable bool

	// Markdown renders the response with glamour. Ignored when
	// ShowNonPrintable is set or MarkdownWidth is zero.
	Markdown bool

	// MarkdownWidth is the wrap width for markdown output. The CLI sets it
	// only when stdout is a terminal.
	MarkdownWidth int

	// StrictErrors makes Run return completion failures instead of printing
	// them as the response.
	StrictErrors bool

	// Stdout receives the response. Logs go through Logger.
	Stdout io.Writer
	Logger *log.Logger

	// Spinner wraps the completion call, e.g. with ui.ShowSpinner. Nil runs
	// the call directly.
	Spinner func(action func() error) error
}

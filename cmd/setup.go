package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/cobra"

	"github.com/mark3labs/dillma/internal/app"
	"github.com/mark3labs/dillma/internal/config"
	"github.com/mark3labs/dillma/internal/credentials"
	"github.com/mark3labs/dillma/internal/llm"
	"github.com/mark3labs/dillma/internal/ui"
)

// Terminal checks and model construction are variables so tests can run the
// full command without a terminal or network.
var (
	stdinIsTerminal  = func() bool { return ui.IsTerminal(os.Stdin) }
	stdoutIsTerminal = func() bool { return ui.IsTerminal(os.Stdout) }
	stderrIsTerminal = func() bool { return ui.IsTerminal(os.Stderr) }

	newChatModel = func(ctx context.Context, cfg llm.Config) (model.BaseChatModel, error) {
		return llm.NewChatModel(ctx, cfg)
	}
)

// BuildLLMConfig turns settings into a client config, resolving the API key
// from settings, the environment or the keyring.
func BuildLLMConfig(settings config.Settings, logger *log.Logger) (llm.Config, error) {
	key, source, err := credentials.ResolveAPIKey(settings.APIKey)
	if err != nil {
		return llm.Config{}, err
	}
	logger.Debug("resolved API key", "source", source)

	return llm.Config{
		APIKey:      key,
		BaseURL:     settings.ProviderURL,
		Model:       settings.Model,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		Timeout:     settings.Timeout,
	}, nil
}

// AppSetupOptions carries the per-invocation inputs SetupApp needs beyond
// the viper-backed settings.
type AppSetupOptions struct {
	Settings         config.Settings
	ShowNonPrintable bool
	Stdout           io.Writer
	Stderr           io.Writer
}

// SetupApp builds the logger, chat model and output options for one run.
func SetupApp(ctx context.Context, opts AppSetupOptions) (*app.App, error) {
	settings := opts.Settings
	logger := newLogger(opts.Stderr, settings.Debug)

	llmCfg, err := BuildLLMConfig(settings, logger)
	if err != nil {
		return nil, err
	}

	m, err := newChatModel(ctx, llmCfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("configured chat model",
		"model", llmCfg.Model,
		"provider_url", llmCfg.BaseURL,
		"temperature", llmCfg.Temperature,
		"max_tokens", llmCfg.MaxTokens,
		"timeout", llmCfg.Timeout)

	appOpts := app.Options{
		Model:            m,
		ModelName:        settings.Model,
		Debug:            settings.Debug,
		ShowNonPrintable: opts.ShowNonPrintable,
		Markdown:         settings.Markdown,
		StrictErrors:     settings.StrictErrors,
		Stdout:           opts.Stdout,
		Logger:           logger,
	}

	if settings.Markdown && stdoutIsTerminal() {
		appOpts.MarkdownWidth = ui.TerminalWidth(os.Stdout, 80)
	}

	// The spinner would interleave with debug log lines.
	if !settings.Debug && stderrIsTerminal() {
		stderr := opts.Stderr
		appOpts.Spinner = func(action func() error) error {
			return ui.ShowSpinner(stderr, "Thinking", action)
		}
	}

	return app.New(appOpts), nil
}

// newLogger returns the stderr logger; debug lowers the level to Debug.
func newLogger(w io.Writer, debug bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "dillma",
		Level:           level,
		ReportTimestamp: debug,
	})
}

// readStdin returns piped input, or "" when stdin is a terminal.
func readStdin(cmd *cobra.Command) (string, error) {
	return app.ReadInput(cmd.InOrStdin(), stdinIsTerminal())
}

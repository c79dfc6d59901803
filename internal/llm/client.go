// Package llm builds the chat model dillma sends its single completion
// request to.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrMissingAPIKey is returned by NewChatModel when no API key is configured.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrEmptyResponse is returned when the model answers without any content.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Config holds everything needed to reach an OpenAI-compatible endpoint.
type Config struct {
	APIKey string
	// BaseURL overrides the default OpenAI endpoint. Leave empty for api.openai.com.
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewChatModel creates an eino OpenAI chat model from cfg.
func NewChatModel(ctx context.Context, cfg Config) (*openai.ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}

	temperature := cfg.Temperature
	modelCfg := &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: &temperature,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}

	m, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model %s: %w", cfg.Model, err)
	}
	return m, nil
}

// Messages builds the request body: the query becomes the system prompt and
// the piped-in text the user message.
func Messages(system, user string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
}

// Result is a completed response.
type Result struct {
	Content string
	// Usage is nil when the provider did not report token counts.
	Usage        *schema.TokenUsage
	FinishReason string
}

// Complete sends one system/user exchange to m and returns the trimmed reply.
func Complete(ctx context.Context, m model.BaseChatModel, system, user string) (*Result, error) {
	msg, err := m.Generate(ctx, Messages(system, user))
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrEmptyResponse
	}

	res := &Result{Content: trimReply(msg.Content)}
	if msg.ResponseMeta != nil {
		res.Usage = msg.ResponseMeta.Usage
		res.FinishReason = msg.ResponseMeta.FinishReason
	}
	return res, nil
}

// trimReply strips surrounding whitespace, counting the ASCII file, group,
// record and unit separators (0x1c-0x1f) as whitespace.
func trimReply(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	})
}

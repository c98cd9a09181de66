// Package prospect generates company candidates with a completion model,
// parses them out of the free-text reply, validates them against
// firmographic ranges, and optionally discovers contacts for the accepted
// companies.
package prospect

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/pkg/groq"
)

// ErrConfigMissing is returned when the selected completion provider has no
// API key configured.
var ErrConfigMissing = eris.New("prospect: completion provider key missing")

// Completer produces one completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config selects and tunes the completion provider.
type Config struct {
	Provider       string // "groq" or "anthropic"
	GroqAPIKey     string
	GroqModel      string
	AnthropicKey   string
	AnthropicModel string
	Temperature    float64
	MaxTokens      int
}

// NewCompleter builds the configured provider's completer.
func NewCompleter(cfg Config) (Completer, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}

	switch cfg.Provider {
	case "", "groq":
		if cfg.GroqAPIKey == "" {
			return nil, ErrConfigMissing
		}
		var opts []groq.Option
		if cfg.GroqModel != "" {
			opts = append(opts, groq.WithModel(cfg.GroqModel))
		}
		return &groqCompleter{
			client:      groq.NewClient(cfg.GroqAPIKey, opts...),
			temperature: cfg.Temperature,
			maxTokens:   cfg.MaxTokens,
		}, nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, ErrConfigMissing
		}
		return &anthropicCompleter{
			client:      sdk.NewClient(option.WithAPIKey(cfg.AnthropicKey)),
			model:       cfg.AnthropicModel,
			temperature: cfg.Temperature,
			maxTokens:   int64(cfg.MaxTokens),
		}, nil
	default:
		return nil, eris.Errorf("prospect: unknown completion provider %q", cfg.Provider)
	}
}

type groqCompleter struct {
	client      groq.Client
	temperature float64
	maxTokens   int
}

func (c *groqCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	var messages []groq.Message
	if system != "" {
		messages = append(messages, groq.Message{Role: "system", Content: system})
	}
	messages = append(messages, groq.Message{Role: "user", Content: user})

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Messages:    messages,
		Temperature: &c.temperature,
		MaxTokens:   &c.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "prospect: groq completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("prospect: groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicCompleter struct {
	client      sdk.Client
	model       string
	temperature float64
	maxTokens   int64
}

func (c *anthropicCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(c.temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "prospect: anthropic completion")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return b.String(), nil
}

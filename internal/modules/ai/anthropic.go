package ai

import (
	"context"
	"errors"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/moodtrack/core/internal/config"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// callAnthropic issues one Messages API call. The Anthropic API has no
// frequency/presence penalty knobs, so those options are not forwarded.
func (c *Client) callAnthropic(ctx context.Context, provider *appcfg.AIProvider, prompt string, opts GenerateOptions) (string, error) {
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = defaultAnthropicModel
	}

	clientOpts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(provider.Endpoint); endpoint != "" {
		clientOpts = append(clientOpts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}

	client := anthropicclient.NewClient(clientOpts...)
	msg, err := client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:       anthropicclient.Model(model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropicclient.Float(opts.Temperature),
		TopP:        anthropicclient.Float(opts.TopP),
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		full.WriteString(block.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

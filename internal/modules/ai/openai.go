package ai

import (
	"context"
	"errors"
	"strings"

	appcfg "github.com/moodtrack/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

func (c *Client) callOpenAI(ctx context.Context, provider *appcfg.AIProvider, prompt string, opts GenerateOptions) (string, error) {
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = defaultOpenAIModel
	}

	clientOpts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		openaioption.WithMaxRetries(0), // retry policy lives in Client.Generate
	}
	if endpoint := normalizeOpenAIBaseURL(provider.Endpoint); endpoint != "" {
		clientOpts = append(clientOpts, openaioption.WithBaseURL(endpoint))
	}

	client := openaiclient.NewClient(clientOpts...)
	resp, err := client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.UserMessage(prompt),
		},
		MaxTokens:        openaiclient.Int(int64(opts.MaxTokens)),
		Temperature:      openaiclient.Float(opts.Temperature),
		TopP:             openaiclient.Float(opts.TopP),
		FrequencyPenalty: openaiclient.Float(opts.FrequencyPenalty),
		PresencePenalty:  openaiclient.Float(opts.PresencePenalty),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}

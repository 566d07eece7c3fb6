package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	appcfg "github.com/moodtrack/core/internal/config"
	"go.uber.org/zap"
)

// Client dispatches generation calls to the first enabled provider from
// config. It is constructed explicitly and injected into every component
// that needs text generation; there is no process-wide singleton.
type Client struct {
	cfg    appcfg.AIConfig
	logger *zap.Logger
}

func NewClient(cfg appcfg.AIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger.Named("AIClient")}
}

var errNoProvider = errors.New("no enabled AI provider configured")

// Generate issues one completion call with retries. Every attempt runs
// under the configured per-call timeout.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	provider := c.selectProvider()
	if provider == nil {
		return "", &GenerateError{Provider: "none", Err: errNoProvider}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = c.cfg.MaxTokens
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout())
		text, err := c.dispatch(callCtx, provider, prompt, opts)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		wait, retryable := backoffFor(err, attempt)
		if !retryable || attempt == maxAttempts-1 {
			break
		}
		c.logger.Warn("generation attempt failed, retrying",
			zap.String("provider", provider.ID),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return "", &GenerateError{Provider: provider.ID, Err: ctx.Err()}
		case <-time.After(wait):
		}
	}

	return "", &GenerateError{Provider: provider.ID, Err: lastErr}
}

func (c *Client) dispatch(ctx context.Context, provider *appcfg.AIProvider, prompt string, opts GenerateOptions) (string, error) {
	switch {
	case isAnthropicProviderType(provider.Type):
		return c.callAnthropic(ctx, provider, prompt, opts)
	case isOpenAICompatibleProviderType(provider.Type):
		return c.callOpenAICompatible(ctx, provider, prompt, opts)
	default:
		return c.callOpenAI(ctx, provider, prompt, opts)
	}
}

func (c *Client) selectProvider() *appcfg.AIProvider {
	for _, provider := range c.cfg.Providers {
		if !provider.Enabled {
			continue
		}
		if strings.TrimSpace(provider.APIKey) == "" {
			continue
		}
		selected := provider
		return &selected
	}
	return nil
}

func isOpenAICompatibleProviderType(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicProviderType(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

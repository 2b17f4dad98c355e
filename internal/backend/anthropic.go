package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kapu/snsgen-go/internal/constants"
	"github.com/kapu/snsgen-go/internal/util"
	"github.com/kapu/snsgen-go/pkg/errors"
	"go.uber.org/zap"
)

// AnthropicProvider calls the Anthropic Messages API over plain HTTP.
type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAnthropicProvider(apiKey, model, baseURL string, logger *zap.Logger) *AnthropicProvider {
	if baseURL == "" {
		baseURL = constants.APIConfig.AnthropicBaseURL
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.APIConfig.RequestTimeout,
		},
		logger: logger,
	}
}

func (a *AnthropicProvider) Name() string {
	return "Anthropic"
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

func (a *AnthropicProvider) Invoke(ctx context.Context, system, user string) (ProviderResult, error) {
	a.logger.Debug("Generating with Anthropic",
		zap.String("model", a.model),
		zap.Int("system_length", len(system)),
		zap.Int("user_length", len(user)),
	)

	text, err := a.complete(ctx, anthropicRequest{
		Model:       a.model,
		System:      system,
		MaxTokens:   constants.GenerationConfig.MaxOutputTokens,
		Temperature: constants.GenerationConfig.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return ProviderResult{}, err
	}

	a.logger.Debug("Anthropic response received", zap.Int("length", len(text)))
	return ProviderResult{Text: text, Model: a.model}, nil
}

func (a *AnthropicProvider) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	a.logger.Debug("Pinging Anthropic API...")

	text, err := a.complete(ctx, anthropicRequest{
		Model:       a.model,
		MaxTokens:   constants.GenerationConfig.PingMaxTokens,
		Temperature: 0,
		Messages: []anthropicMessage{
			{Role: "user", Content: "ping"},
		},
	})
	if err != nil {
		a.logger.Debug("Anthropic ping failed", zap.Error(err))
		return false
	}
	return text != ""
}

func (a *AnthropicProvider) complete(ctx context.Context, payload anthropicRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", a.wrapErr("failed to encode request", 0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", a.wrapErr("failed to build request", 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", constants.APIConfig.AnthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", a.wrapErr("request failed", 0, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", a.wrapErr("failed to read response", resp.StatusCode, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Error("Anthropic API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body_preview", util.Truncate(string(respBody), constants.InputLimits.LogPreviewLength)),
		)
		return "", errors.NewBackendError(
			fmt.Sprintf("anthropic API returned status %d", resp.StatusCode),
			a.Name(), resp.StatusCode, string(respBody),
		)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", a.wrapErr("failed to decode response", resp.StatusCode, string(respBody), err)
	}

	var texts []string
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}

	text := strings.Join(texts, "\n")
	if text == "" {
		return "", errors.NewBackendError("empty response from Anthropic", a.Name(), resp.StatusCode, string(respBody))
	}

	return text, nil
}

// wrapErr keeps the typed *errors.BackendError on the return path so callers
// can still match it with errors.As after a cause is attached.
func (a *AnthropicProvider) wrapErr(message string, status int, body string, cause error) *errors.BackendError {
	be := errors.NewBackendError(message, a.Name(), status, body)
	be.Cause = cause
	return be
}

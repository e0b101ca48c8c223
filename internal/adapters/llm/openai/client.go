// Package openai implements ports.Generator against the OpenAI
// chat-completions API. The endpoint is treated as untrusted and slow; the
// injected http.Client carries the timeout, and every failure maps to
// domain.ErrUpstreamLLM for the orchestrator to soften.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
)

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, in ports.GenerateInput) (ports.GenerateOutput, error) {
	reqBody := chatRequest{
		Model:       in.Model,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	}
	reqBody.Messages = make([]chatMessage, len(in.Messages))
	for i, m := range in.Messages {
		reqBody.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("%w: http call: %w", domain.ErrUpstreamLLM, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("%w: read response: %w", domain.ErrUpstreamLLM, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "completion request failed",
			"status", resp.StatusCode, "model", in.Model)
		return ports.GenerateOutput{}, fmt.Errorf("%w: upstream status %d: %s",
			domain.ErrUpstreamLLM, resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamLLM, err)
	}

	if len(chatResp.Choices) == 0 {
		return ports.GenerateOutput{}, fmt.Errorf("%w: no choices in response", domain.ErrUpstreamLLM)
	}

	return ports.GenerateOutput{
		Text:  strings.TrimSpace(chatResp.Choices[0].Message.Content),
		Model: chatResp.Model,
	}, nil
}

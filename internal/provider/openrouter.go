package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter calls the OpenRouter chat completions API (OpenAI shape).
type OpenRouter struct {
	apiKey     string
	model      string
	cfg        GenerationConfig
	appName    string
	httpClient *http.Client

	Stats *CallStats
}

func NewOpenRouter(apiKey, model, appName string, cfg GenerationConfig) *OpenRouter {
	return &OpenRouter{
		apiKey:  apiKey,
		model:   model,
		cfg:     cfg,
		appName: appName,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (o *OpenRouter) Model() string { return o.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends one prompt to the configured OpenRouter model.
func (o *OpenRouter) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       o.model,
		Temperature: o.cfg.Temperature,
		TopP:        o.cfg.TopP,
	}
	if o.cfg.SystemInstruction != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: o.cfg.SystemInstruction})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: prompt})
	if o.cfg.ResponseMIMEType == "application/json" {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.appName != "" {
		httpReq.Header.Set("X-Title", o.appName)
	}

	start := time.Now()
	resp, err := o.httpClient.Do(httpReq)
	if o.Stats != nil {
		o.Stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		return "", fmt.Errorf("openrouter api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter api status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("openrouter error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from openrouter")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// Close releases idle connections.
func (o *OpenRouter) Close() {
	o.httpClient.CloseIdleConnections()
}

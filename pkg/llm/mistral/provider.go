package mistral

import (
	"ai-legalchat-be/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

type MistralProvider struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure MistralProvider implements LLMProvider
var _ llm.LLMProvider = &MistralProvider{}

func NewMistralProvider(apiKey, modelName string) *MistralProvider {
	if modelName == "" {
		modelName = "mistral-small-latest"
	}
	return &MistralProvider{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type mistralChatRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralChatResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

func (m *MistralProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	mistralMessages := make([]mistralMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		mistralMessages[i] = mistralMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := m.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := mistralChatRequest{
		Model:       model,
		Messages:    mistralMessages,
		Temperature: options.Temperature,
	}

	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := m.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var mistralResp mistralChatResponse
	if err := json.Unmarshal(bodyBytes, &mistralResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(mistralResp.Choices) == 0 {
		return "", fmt.Errorf("mistral response contained no choices")
	}

	return mistralResp.Choices[0].Message.Content, nil
}

func (m *MistralProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return m.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

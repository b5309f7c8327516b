package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MistralProvider implements EmbeddingProvider against the Mistral
// embeddings API (mistral-embed, 1024 dimensions).
type MistralProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

func NewMistralProvider(apiKey, model string) EmbeddingProvider {
	if model == "" {
		model = "mistral-embed"
	}
	return &MistralProvider{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type mistralEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type mistralEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *MistralProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// Mistral has no task-type parameter; kept for interface compatibility.
	reqBody := mistralEmbeddingRequest{
		Model: p.Model,
		Input: []string{text},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", "https://api.mistral.ai/v1/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral embedding error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var mistralResp mistralEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &mistralResp); err != nil {
		return nil, err
	}
	if len(mistralResp.Data) == 0 {
		return nil, fmt.Errorf("mistral embedding error: empty response")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(mistralResp.Data[0].Embedding),
		},
	}, nil
}

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SetuAI/setu-node/pkg/fn"
	"github.com/SetuAI/setu-node/pkg/resilience"
)

// GenerateClient produces free-text completions via Ollama's /api/generate.
// Calls go through a circuit breaker so a dead model endpoint fails fast
// instead of stacking up timeouts.
type GenerateClient struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *resilience.Breaker
}

// NewGenerateClient creates an Ollama generation client.
func NewGenerateClient(baseURL, model string) *GenerateClient {
	return &GenerateClient{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate returns the model's raw text response for the prompt.
func (c *GenerateClient) Generate(ctx context.Context, prompt string) (string, error) {
	res := resilience.CallResult(c.breaker, ctx, func(ctx context.Context) fn.Result[string] {
		return fn.FromPair(c.generateOnce(ctx, prompt))
	})
	return res.Unwrap()
}

func (c *GenerateClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate: status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ollama generate decode: %w", err)
	}
	return result.Response, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"superai/config"
)

// Message is one turn sent to the reasoning backend.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatOptions carry the per-session model configuration into one call.
type ChatOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Backend is what the agents invoke. Satisfied by Client; tests substitute
// fakes.
type Backend interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Client talks to an OpenAI-compatible completion and embedding API. One
// request at a time is paced through a minimum-interval gate; there is no
// retry, a failed call surfaces once as a degraded answer upstream.
type Client struct {
	apiKey     string
	baseURL    string
	embedModel string
	cache      *cache.Cache // embedding vectors keyed by input text
	httpClient *http.Client

	requestMutex       sync.Mutex
	lastRequestTime    time.Time
	minRequestInterval time.Duration
}

var _ Backend = (*Client)(nil)

func NewClient(cfg config.Config) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		embedModel: cfg.EmbedModel,
		cache:      cache.New(30*time.Minute, 10*time.Minute),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		minRequestInterval: 500 * time.Millisecond,
	}
}

// rateLimit enforces the minimum interval between requests.
func (c *Client) rateLimit() {
	c.requestMutex.Lock()
	defer c.requestMutex.Unlock()

	elapsed := time.Since(c.lastRequestTime)
	if elapsed < c.minRequestInterval {
		time.Sleep(c.minRequestInterval - elapsed)
	}
	c.lastRequestTime = time.Now()
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Chat sends the message list to /v1/chat/completions and returns the first
// choice's content.
func (c *Client) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	body, err := c.post(ctx, "/v1/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI model")
	}
	return resp.Choices[0].Message.Content, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

// Embed returns one vector per input text via /v1/embeddings. Vectors are
// cached per text so re-indexing an unchanged document stays cheap.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if v, found := c.cache.Get("embed:" + t); found {
			out[i] = v.([]float64)
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	body, err := c.post(ctx, "/v1/embeddings", embedRequest{Model: c.embedModel, Input: missing})
	if err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embeddings: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s - %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Data) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(resp.Data))
	}

	for j, d := range resp.Data {
		out[missingIdx[j]] = d.Embedding
		c.cache.SetDefault("embed:"+missing[j], d.Embedding)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	c.rateLimit()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error apiError `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

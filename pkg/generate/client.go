package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/journey/pkg/buildinfo"
	"github.com/matzehuels/journey/pkg/config"
	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/httputil"
	"github.com/matzehuels/journey/pkg/observability"
)

const systemPrompt = "You design marketing customer journeys. You answer with JSON only."

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64

	// Attempts and Delay control retries of transient failures. Zero
	// values use 3 attempts starting at 1 second.
	Attempts int
	Delay    time.Duration

	http *http.Client
}

// NewClient creates a client from generator settings.
func NewClient(cfg config.Generator) *Client {
	return &Client{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		http:        &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as a user message and returns the first choice.
// Network failures, 429 and 5xx responses are retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", err
	}

	attempts, delay := c.Attempts, c.Delay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}

	var out chatResponse
	err = httputil.Retry(ctx, attempts, delay, func() error {
		return c.post(ctx, body, &out)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeGeneration, err, "generate with %s", c.Model)
	}
	if len(out.Choices) == 0 {
		return "", errors.New(errors.ErrCodeGeneration, "generate with %s: empty response", c.Model)
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, body []byte, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	host, path := target(c.Endpoint)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		if ctx.Err() != nil {
			return err
		}
		return httputil.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func target(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", endpoint
	}
	return u.Host, u.Path
}

var _ Generator = (*Client)(nil)

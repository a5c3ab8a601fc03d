package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/recipelens/internal/llm"
)

const temperature = 0.7

// Client completes prompts against a local Ollama server's generate API.
type Client struct {
	host   string
	model  string
	client *http.Client
}

func NewClient(host, model string, timeout time.Duration) *Client {
	return &Client{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type request struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(request{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: options{Temperature: temperature},
	})
	if err != nil {
		return "", llm.MalformedError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", llm.NetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", llm.NetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", llm.StatusError(resp.StatusCode, string(body))
	}

	var respBody struct {
		Response *string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", llm.MalformedError("failed to decode response", err)
	}
	if respBody.Response == nil {
		return "", llm.MalformedError("response field missing", nil)
	}
	return *respBody.Response, nil
}

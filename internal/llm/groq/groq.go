package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/recipelens/internal/llm"
)

const defaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// temperature is fixed for every request.
const temperature = 0.7

// request types mirror the OpenAI-compatible chat completions schema.
type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type response struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type Client struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewClient returns a Groq chat client. An empty apiURL selects the public
// endpoint; timeout 0 leaves the transport default.
func NewClient(apiKey, model, apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		baseURL: apiURL,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(request{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", llm.MalformedError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", llm.NetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", llm.NetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close groq response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NetworkError(fmt.Errorf("failed to read response: %w", err))
	}

	slog.Debug("groq response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return "", llm.StatusError(resp.StatusCode, string(body))
	}

	var respBody response
	if err := json.Unmarshal(body, &respBody); err != nil {
		return "", llm.MalformedError("failed to decode response", err)
	}
	if len(respBody.Choices) == 0 {
		return "", llm.MalformedError(fmt.Sprintf("no choices in response: %s", body), nil)
	}

	return respBody.Choices[0].Message.Content, nil
}

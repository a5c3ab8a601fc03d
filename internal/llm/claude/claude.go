package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/recipelens/internal/llm"
)

// maxTokens comfortably fits a recipe or a chat answer.
const maxTokens = 1024

const temperature float32 = 0.7

type Client struct {
	model  string
	client *anthropic.Client
}

// NewClient returns a Claude-backed Completer. An empty baseURL selects the
// public Anthropic endpoint.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Client{
		model:  model,
		client: anthropic.NewClient(apiKey, opts...),
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	t := temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens:   maxTokens,
		Temperature: &t,
	})
	if err != nil {
		return "", classify(err)
	}

	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText {
			return content.GetText(), nil
		}
	}
	return "", llm.MalformedError("no text content in response", nil)
}

// classify folds go-anthropic errors into the llm error kinds.
func classify(err error) error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		return &llm.Error{Kind: llm.KindHTTPStatus, StatusCode: reqErr.StatusCode, Message: err.Error(), Err: err}
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return &llm.Error{Kind: llm.KindHTTPStatus, Message: apiErr.Message, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return llm.MalformedError("failed to decode response", err)
	}
	return llm.NetworkError(err)
}

package yolo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vbonduro/recipelens/internal/detect"
)

// Client sends images to a YOLO inference server. The server owns the
// pretrained weights; the client names them in the "model" form field.
type Client struct {
	url    string
	model  string
	labels map[int]string
	client *http.Client
}

// NewClient returns a Client. labels is the fallback label table used when
// the server response does not carry one.
func NewClient(url, model string, labels map[int]string) *Client {
	return &Client{
		url:    url,
		model:  model,
		labels: labels,
		client: &http.Client{},
	}
}

type response struct {
	Names      map[string]string `json:"names"`
	Detections []struct {
		Class      int        `json:"class"`
		Confidence float64    `json:"confidence"`
		Box        [4]float64 `json:"box"`
	} `json:"detections"`
}

func (c *Client) Detect(ctx context.Context, imagePath string) (*detect.Result, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", detect.ErrImageNotFound, filepath.Base(imagePath))
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call detector: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close detector response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &detect.Result{
		Detections: make([]detect.Detection, 0, len(respBody.Detections)),
		Labels:     c.labelTable(respBody.Names),
	}
	for _, d := range respBody.Detections {
		result.Detections = append(result.Detections, detect.Detection{
			ClassID:    d.Class,
			Confidence: d.Confidence,
			Box:        d.Box,
		})
	}
	return result, nil
}

// labelTable prefers the server's names and falls back to the configured table.
func (c *Client) labelTable(names map[string]string) map[int]string {
	if len(names) == 0 {
		return c.labels
	}
	labels := make(map[int]string, len(names))
	for k, v := range names {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		labels[id] = v
	}
	return labels
}

package yolo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/recipelens/internal/detect"
)

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fruit.jpg")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestDetect(t *testing.T) {
	var gotModel string
	var gotImage []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotImage, _ = io.ReadAll(f)

		resp := map[string]interface{}{
			"names": map[string]string{"0": "apple", "1": "banana"},
			"detections": []map[string]interface{}{
				{"class": 0, "confidence": 0.93, "box": []float64{1, 2, 3, 4}},
				{"class": 0, "confidence": 0.88, "box": []float64{5, 6, 7, 8}},
				{"class": 1, "confidence": 0.71, "box": []float64{9, 10, 11, 12}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "yolo_fruits_and_vegetables_v8x.pt", nil)
	result, err := client.Detect(context.Background(), writeImage(t, []byte{0xFF, 0xD8, 0xFF}))
	require.NoError(t, err)

	assert.Equal(t, "yolo_fruits_and_vegetables_v8x.pt", gotModel)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, gotImage)
	require.Len(t, result.Detections, 3)
	assert.Equal(t, [4]float64{1, 2, 3, 4}, result.Detections[0].Box)

	counts := detect.Tally(result.Detections, result.Labels)
	assert.Equal(t, map[string]int{"apple": 2, "banana": 1}, counts.Counts)
}

func TestDetectFallbackLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"detections":[{"class":2,"confidence":0.5,"box":[0,0,1,1]}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m.pt", map[int]string{2: "carrot"})
	result, err := client.Detect(context.Background(), writeImage(t, []byte("img")))
	require.NoError(t, err)

	assert.Equal(t, "carrot", detect.LabelFor(result.Labels, 2))
}

func TestDetectMissingFile(t *testing.T) {
	client := NewClient("http://localhost:1", "m.pt", nil)

	_, err := client.Detect(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"))
	assert.ErrorIs(t, err, detect.ErrImageNotFound)
}

func TestDetectServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m.pt", nil)
	_, err := client.Detect(context.Background(), writeImage(t, []byte("img")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.NotErrorIs(t, err, detect.ErrImageNotFound)
}

func TestDetectInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer server.Close()

	client := NewClient(server.URL, "m.pt", nil)
	_, err := client.Detect(context.Background(), writeImage(t, []byte("img")))
	assert.Error(t, err)
}

func TestDetectNetworkError(t *testing.T) {
	client := NewClient("http://localhost:99999", "m.pt", nil)

	_, err := client.Detect(context.Background(), writeImage(t, []byte("img")))
	assert.Error(t, err)
}

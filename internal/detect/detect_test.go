package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	labels := map[int]string{0: "apple", 1: "banana", 2: "carrot"}
	detections := []Detection{
		{ClassID: 0, Confidence: 0.91},
		{ClassID: 0, Confidence: 0.84},
		{ClassID: 1, Confidence: 0.77},
	}

	got := Tally(detections, labels)

	assert.Equal(t, map[string]int{"apple": 2, "banana": 1}, got.Counts)
	assert.Equal(t, []string{"apple", "banana"}, got.Names)
}

func TestTallyFirstSeenOrder(t *testing.T) {
	labels := map[int]string{0: "apple", 1: "banana", 2: "carrot"}
	detections := []Detection{{ClassID: 2}, {ClassID: 0}, {ClassID: 2}, {ClassID: 1}}

	got := Tally(detections, labels)

	assert.Equal(t, []string{"carrot", "apple", "banana"}, got.Names)
	for _, n := range got.Counts {
		assert.GreaterOrEqual(t, n, 1)
	}
}

func TestTallyUnknownClass(t *testing.T) {
	got := Tally([]Detection{{ClassID: 7}}, map[int]string{0: "apple"})
	assert.Equal(t, map[string]int{"class_7": 1}, got.Counts)
}

func TestTallyEmpty(t *testing.T) {
	got := Tally(nil, nil)
	assert.Empty(t, got.Names)
	assert.NotNil(t, got.Counts)
	assert.Empty(t, got.Counts)
}

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels(strings.NewReader("apple\nbanana\n\n  carrot  \n"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "apple", 1: "banana", 3: "carrot"}, labels)
}

func TestLoadLabels(t *testing.T) {
	empty, err := LoadLabels("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("apple\nbanana\n"), 0644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, "banana", labels[1])

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

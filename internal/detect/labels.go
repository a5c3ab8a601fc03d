package detect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseLabels reads a label table with one class name per line; the line
// index is the class id. Blank lines keep their index but carry no name.
func ParseLabels(r io.Reader) (map[int]string, error) {
	labels := make(map[int]string)
	scanner := bufio.NewScanner(r)
	for i := 0; scanner.Scan(); i++ {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			labels[i] = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// LoadLabels reads a label file from disk. An empty path yields an empty table.
func LoadLabels(path string) (map[int]string, error) {
	if path == "" {
		return map[int]string{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file: %w", err)
	}
	defer f.Close()
	return ParseLabels(f)
}

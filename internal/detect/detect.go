package detect

import (
	"context"
	"errors"
	"fmt"
)

// ErrImageNotFound is returned when the image path given to a Detector does
// not exist.
var ErrImageNotFound = errors.New("image not found")

type Detector interface {
	// Detect runs the model against the image at imagePath.
	Detect(ctx context.Context, imagePath string) (*Result, error)
}

// Detection is one object instance recognised by the model.
type Detection struct {
	ClassID    int
	Confidence float64
	Box        [4]float64
}

// Result holds the raw detections plus the label table used to name them.
type Result struct {
	Detections []Detection
	Labels     map[int]string
}

// Counts is the per-class tally of a Result. Names lists each distinct class
// once, in the order it was first seen.
type Counts struct {
	Names  []string
	Counts map[string]int
}

// Tally maps every detection to its class name and counts occurrences. A class
// index missing from labels is named "class_<index>".
func Tally(detections []Detection, labels map[int]string) Counts {
	c := Counts{Names: []string{}, Counts: make(map[string]int)}
	for _, d := range detections {
		name := LabelFor(labels, d.ClassID)
		if _, seen := c.Counts[name]; !seen {
			c.Names = append(c.Names, name)
		}
		c.Counts[name]++
	}
	return c
}

func LabelFor(labels map[int]string, classID int) string {
	if name, ok := labels[classID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("class_%d", classID)
}

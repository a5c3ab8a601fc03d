// Command detect runs the object detector on image files and prints the
// per-class counts, one "name: count" line per class.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vbonduro/recipelens/internal/config"
	"github.com/vbonduro/recipelens/internal/detect"
	"github.com/vbonduro/recipelens/internal/detect/yolo"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	url := fs.String("url", cfg.DetectorURL, "YOLO inference server endpoint")
	model := fs.String("model", cfg.DetectorModel, "model weights the server should use")
	labels := fs.String("labels", cfg.DetectorLabels, "fallback label file, one class name per line")
	timeout := fs.Duration("timeout", 2*time.Minute, "per-image timeout")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: detect [flags] IMAGE...\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	table, err := detect.LoadLabels(*labels)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	client := yolo.NewClient(*url, *model, table)

	failed := false
	for _, path := range fs.Args() {
		if err := detectOne(client, path, *timeout, os.Stdout, fs.NArg() > 1); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func detectOne(d detect.Detector, path string, timeout time.Duration, w io.Writer, header bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := d.Detect(ctx, path)
	if err != nil {
		return err
	}

	if header {
		fmt.Fprintf(w, "%s:\n", path)
	}
	counts := detect.Tally(result.Detections, result.Labels)
	if len(counts.Names) == 0 {
		fmt.Fprintln(w, "no objects detected")
		return nil
	}
	for _, name := range counts.Names {
		fmt.Fprintf(w, "%s: %d\n", name, counts.Counts[name])
	}
	return nil
}

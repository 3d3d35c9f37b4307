// Package icons prepares marker icons from the extracted KMZ images for the
// output artifact: each icon is decoded, resized to marker size, and written
// as PNG next to the map page.
package icons

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"

	_ "image/gif"  // decoders for KMZ icon formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"tacmap/internal/worker"
)

// DefaultSize is the marker icon edge length in pixels.
const DefaultSize = 22

var iconExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Processor resizes a single icon. It implements worker.Processor.
type Processor struct {
	filter *gift.GIFT
}

// NewProcessor creates a processor producing size x size icons.
func NewProcessor(size int) *Processor {
	if size <= 0 {
		size = DefaultSize
	}
	return &Processor{
		filter: gift.New(gift.Resize(size, size, gift.LanczosResampling)),
	}
}

// Process decodes task.Src, resizes it, and writes task.Dst as PNG.
func (p *Processor) Process(_ context.Context, task worker.Task) error {
	f, err := os.Open(task.Src)
	if err != nil {
		return fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close() // nolint:errcheck

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode icon %s: %w", task.Src, err)
	}

	dst := image.NewRGBA(p.filter.Bounds(src.Bounds()))
	p.filter.Draw(dst, src)

	out, err := os.Create(task.Dst)
	if err != nil {
		return fmt.Errorf("failed to create icon: %w", err)
	}
	defer out.Close() // nolint:errcheck

	if err := png.Encode(out, dst); err != nil {
		return fmt.Errorf("failed to encode icon %s: %w", task.Dst, err)
	}

	return nil
}

// Prepare processes every icon in srcDir into dstDir in parallel, returning
// the number of icons written and the per-icon failures. With showProgress a
// progress bar is printed to stderr while the pool runs.
func Prepare(ctx context.Context, srcDir, dstDir string, size, workers int, showProgress bool) (int, []error, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read icons dir: %w", err)
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, nil, fmt.Errorf("failed to create icons output dir: %w", err)
	}

	tasks := make([]worker.Task, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !iconExtensions[ext] {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		tasks = append(tasks, worker.Task{
			Src: filepath.Join(srcDir, entry.Name()),
			Dst: filepath.Join(dstDir, base+".png"),
		})
	}

	if len(tasks) == 0 {
		return 0, nil, nil
	}

	progress := worker.NewProgress(len(tasks), showProgress)

	pool := worker.New(worker.Config{
		Workers:    workers,
		Processor:  NewProcessor(size),
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	written := 0
	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", r.Task.Src, r.Err))
			continue
		}
		written++
	}

	return written, failures, nil
}

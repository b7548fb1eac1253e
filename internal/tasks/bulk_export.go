package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// ManifestFile is written into every bulk export directory.
const ManifestFile = "export_manifest.json"

// BulkExportOpts contains configuration for bulk library exports.
type BulkExportOpts struct {
	Formats    []formatter.Format // Formats to write (default: all)
	OutputDir  string             // Output directory (default: bookmedia_export_{epoch})
	NumWorkers int                // Concurrent workers (default: 3, max 5)
	RateLimit  float64            // Jobs started per second (default: 10)
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalFormats      int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	Results           []FormatExportResult // in the order the formats were requested
	ManifestPath      string
}

// ExportManifest is the JSON summary written next to the exported files.
type ExportManifest struct {
	ExportedAt models.Date          `json:"exportedAt"`
	Books      int                  `json:"books"`
	Sessions   int                  `json:"sessions"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Formats    []FormatExportResult `json:"formats"`
	Errors     map[string]string    `json:"errors,omitempty"`
}

// BulkExport writes every requested format concurrently with rate limiting and progress tracking.
//
// The library is loaded once and shared read-only by the workers. A failing format is reported in the result
// and the manifest without stopping the others.
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = formatter.Formats
	}
	opts.Formats = dedupe(opts.Formats)
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("bookmedia_export_%d", e.clock().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	opts.NumWorkers = min(opts.NumWorkers, 5, len(opts.Formats))
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, loadingLibraryUpdate())
	export, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, loadedLibraryUpdate(export))

	total := len(opts.Formats)
	result := &BulkExportResult{
		TotalFormats:    total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]FormatExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan formatter.Format, total)
	results := make(chan FormatExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, export, opts.OutputDir, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, format := range opts.Formats {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			e.sendProgress(prog, exportingFormatUpdate(i+1, total, format))
			jobs <- format
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	slices.SortFunc(result.Results, func(a, b FormatExportResult) int {
		return slices.Index(opts.Formats, a.Format) - slices.Index(opts.Formats, b.Format)
	})

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := writeManifest(result, export, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	e.logger.Info("bulk export finished",
		"dir", opts.OutputDir, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

// exportWorker is a worker goroutine that writes formats from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	export *formatter.LibraryExport,
	dir string,
	jobs <-chan formatter.Format,
	results chan<- FormatExportResult,
) {
	defer wg.Done()

	for format := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportFormat(ctx, export, format, defaultTarget(dir, format))
	}
}

func writeManifest(result *BulkExportResult, export *formatter.LibraryExport, path string) error {
	manifest := ExportManifest{
		ExportedAt: export.ExportedAt,
		Books:      len(export.Books),
		Sessions:   len(export.Sessions),
		Successful: result.SuccessfulExports,
		Failed:     result.FailedExports,
		Formats:    result.Results,
	}
	for _, res := range result.Results {
		if res.Error == nil {
			continue
		}
		if manifest.Errors == nil {
			manifest.Errors = make(map[string]string)
		}
		manifest.Errors[string(res.Format)] = res.Error.Error()
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func dedupe(formats []formatter.Format) []formatter.Format {
	out := make([]formatter.Format, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}


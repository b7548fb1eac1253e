package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/tasks"
)

// Export writes the library in one format, or every format with --all.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.bulkExport(ctx, cmd)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		switch format {
		case formatter.FormatCSV:
			output = "library"
		case formatter.FormatMarkdown:
			output = "markdown"
		default:
			return r.exportToStdout(ctx, format)
		}
	}

	res, err := r.exporter.Export(ctx, format, output)
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		r.writePlain("✓ Wrote %s\n", f)
	}
	for _, w := range res.Warnings {
		r.writePlain("⚠ %s\n", w)
	}
	return nil
}

func (r *Runner) exportToStdout(ctx context.Context, format formatter.Format) error {
	export, err := r.exporter.Load(ctx)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatter.FormatYAML:
		data, err = formatter.LibraryToYAML(export)
	case formatter.FormatJSON:
		data, err = formatter.LibraryToJSON(export)
	case formatter.FormatText:
		data, err = formatter.LibraryToText(export)
	default:
		return fmt.Errorf("%w: %s export needs --output", shared.ErrMissingArgument, format)
	}
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

func (r *Runner) bulkExport(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.BulkExportOpts{
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
	}
	if cmd.IsSet("format") {
		format, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		opts.Formats = []formatter.Format{format}
	}

	r.writePlain("Exporting library...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadLibrary:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportFormat:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.exporter.BulkExport(ctx, progressCh, opts)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Formats: %d/%d succeeded\n", result.SuccessfulExports, result.TotalFormats)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed formats:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.Format, res.Error)
			}
		}
	}
	for _, res := range result.Results {
		for _, w := range res.Warnings {
			r.writePlain("⚠ %s: %s\n", res.Format, w)
		}
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return nil
}

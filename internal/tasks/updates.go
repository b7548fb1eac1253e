package tasks

import (
	"fmt"

	"github.com/desertthunder/bookmedia/internal/formatter"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadLibrary Phase = iota
	ExportFormat
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadLibrary:
		return "load_library"
	case ExportFormat:
		return "export_format"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadingLibraryUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadLibrary,
		Step:    0,
		Total:   1,
		Message: "Loading library...",
	}
}

func loadedLibraryUpdate(export *formatter.LibraryExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d books and %d sessions", len(export.Books), len(export.Sessions)),
		Data:    export,
	}
}

func exportingFormatUpdate(step, total int, format formatter.Format) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFormat,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting %s...", step, total, format),
	}
}

func exportCompletedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFormat,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, res.Format, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFormat,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Format, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}

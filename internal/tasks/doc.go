// Package tasks writes the stored library to disk with real-time progress reporting.
//
// # Core Operations
//
// [ExportEngine] loads books, reading sessions and the profile through the same stores the services use,
// then renders them with package formatter:
//
//  1. [ExportEngine.Export] : One format to one destination
//     - yaml, json and txt write a single file
//     - csv writes {base}_books.csv and {base}_sessions.csv
//     - markdown writes a directory with README.md and downloaded covers
//
//  2. [ExportEngine.BulkExport] : Every requested format into one directory
//     - Formats are written concurrently by a bounded worker pool
//     - Job dispatch is rate limited so cover downloads stay polite
//     - A failed format does not stop the others
//     - export_manifest.json summarizes what was written
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks

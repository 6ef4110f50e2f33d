// Package ui renders the analyzer's console output.
//
// Components follow a "run once and exit" pattern built on Lipgloss, with
// Bubble Tea used to paint to a terminal. Nothing here is interactive apart
// from Confirm.
//
//   - Header: banner with the invocation and its parameters
//   - Result: success, warning and failure boxes with ordered details
//   - AnalysisSummary: a Result describing one firmware image
//   - Progress and BatchRunner: a progress bar and per-file list for
//     multi-image runs
//   - TextBox: preformatted text such as the decoded dictionary
//
// Logging goes to stderr and is controlled by KLIPPER_ANALYZER_LOG_LEVEL, so
// with logging silent only the curated output appears on stdout.
package ui

// Package logging provides structured logging for klipper-analyzer.
//
// This package wraps a global zap logger. Logging is silent by default so
// that the console summary and reports are the only output; set
// KLIPPER_ANALYZER_LOG_LEVEL (or pass --log-level) to "debug", "info", "warn"
// or "error" to see what the analyzer decided and why.
//
// # Log Levels
//
//   - Debug: vector table words, dictionary location, link base method
//   - Info: files analysed, reports written
//   - Warn: ambiguous link base matches, browser launch failures
//   - Error: unreadable inputs, report write failures
//
// # Usage
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	analyzer := firmware.NewAnalyzer(logging.GetLogger())
//
// Logs go to stderr in zap's console format, keeping stdout for the summary.
package logging

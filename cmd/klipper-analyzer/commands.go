package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/klipper-analyzer/internal/config"
	"github.com/muurk/klipper-analyzer/internal/firmware"
	"github.com/muurk/klipper-analyzer/internal/logging"
	"github.com/muurk/klipper-analyzer/internal/report"
	"github.com/muurk/klipper-analyzer/internal/ui"
	"github.com/muurk/klipper-analyzer/internal/urls"
)

const appTitle = "Klipper Binary Analyzer"

// headerDumpBytes is how much of each image is hex-dumped at debug level.
const headerDumpBytes = 64

// Analysis command flags
var (
	outputPath  string
	outputDir   string
	formatFlag  string
	noBrowser   bool
	quiet       bool
	showDict    bool
	logLevel    string
	configPath  string
	forceConfig bool
)

// Preferences loaded before every command; flags override them.
var (
	prefs    = config.NewSettings().Preferences
	prefsErr error
)

// openReport opens a written report for viewing. Replaced in tests.
var openReport = browser.OpenFile

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $KLIPPER_ANALYZER_LOG_LEVEL, silent)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Preferences file (default: OS config directory)")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report path (ignored when several inputs are given)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for reports (default: next to each input)")
	rootCmd.Flags().StringVar(&formatFlag, "format", "html", "Report format: html, json or yaml")
	rootCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open HTML reports in a browser")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	rootCmd.Flags().BoolVar(&showDict, "show-dict", false, "Print the decoded dictionary")

	rootCmd.AddCommand(offsetsCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&forceConfig, "force", false, "Overwrite an existing preferences file")
}

// loadPreferences reads the preferences file, applies it to flags the user
// did not set and initializes logging.
func loadPreferences(cmd *cobra.Command, args []string) error {
	var settings *config.Settings
	if configPath != "" {
		settings, prefsErr = config.LoadFile(configPath)
	} else {
		settings, prefsErr = config.Load()
	}
	if prefsErr == nil {
		prefs = settings.Preferences
	}

	level := logLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		level = prefs.LogLevel
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}

	if prefsErr != nil {
		logging.Warn("Ignoring preferences file", zap.Error(prefsErr))
	}

	flags := cmd.Flags()
	if !flags.Changed("format") && prefs.Format != "" {
		formatFlag = prefs.Format
	}
	if !flags.Changed("output-dir") {
		outputDir = prefs.OutputDir
	}
	if !flags.Changed("no-browser") {
		noBrowser = !prefs.OpenBrowser
	}
	if !flags.Changed("quiet") {
		quiet = prefs.Quiet
	}
	return nil
}

// printerFor returns a printer for w, using terminal rendering when w is stdout.
func printerFor(w io.Writer) *ui.Printer {
	if w == os.Stdout {
		return ui.NewPrinter(nil)
	}
	return ui.NewPrinter(w)
}

// invocation rebuilds the command line for the header.
func invocation(args []string) string {
	return "klipper-analyzer " + strings.Join(args, " ")
}

// imageResult is one analyzed and reported image.
type imageResult struct {
	analysis *firmware.Analysis
	verdict  report.Verdict
	output   string
}

// inputError carries the failure box title for an input.
type inputError struct {
	Title string
	Path  string
	Err   error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *inputError) Unwrap() error {
	return e.Err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	analyzer := firmware.NewAnalyzer(logging.GetLogger())
	out := printerFor(cmd.OutOrStdout())
	errOut := ui.NewPrinter(cmd.ErrOrStderr())
	if outputPath != "" && len(args) > 1 {
		logging.Warn("Ignoring --output for multiple inputs", zap.String("output", outputPath))
		warning := ui.NewWarningResult("--output ignored", ui.Field{Key: "Output", Value: outputPath})
		warning.Note = "Several inputs were given; each report is written next to its input, or to --output-dir when set."
		errOut.PrintResult(warning)
	}
	if len(args) == 1 {
		return analyzeSingle(cmd.Context(), analyzer, args[0], format, out, errOut)
	}

	op := func(_ context.Context, i int) (string, error) {
		res, err := processImage(analyzer, args[i], format, true)
		if err != nil {
			return "", err
		}
		if !noBrowser && format == report.FormatHTML {
			launch(res.output)
		}
		return batchNote(res), nil
	}

	if quiet {
		return runQuietBatch(cmd.Context(), args, op, errOut)
	}

	names := make([]string, len(args))
	for i, a := range args {
		names[i] = filepath.Base(a)
	}
	runner := ui.NewBatchRunner(ui.BatchConfig{
		Title:   appTitle,
		Command: invocation(args),
		Params:  []ui.Field{{Key: "Format", Value: string(format)}},
		Files:   names,
		Output:  out.Writer(),
	})

	err = runner.Run(cmd.Context(), op)
	var batchErr *ui.BatchError
	if errors.As(err, &batchErr) {
		return errReported
	}
	return err
}

// runQuietBatch processes a batch printing only failures.
func runQuietBatch(ctx context.Context, args []string, op ui.BatchOperation, errOut *ui.Printer) error {
	failed := 0
	for i := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := op(ctx, i); err != nil {
			failed++
			errOut.PrintError(inputErrorTitle(err), err)
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

func analyzeSingle(ctx context.Context, analyzer *firmware.Analyzer, path string, format report.Format, out, errOut *ui.Printer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !quiet {
		out.PrintHeader(appTitle, invocation([]string{path}), ui.Field{Key: "Format", Value: string(format)})
	}

	res, err := processImage(analyzer, path, format, false)
	if err != nil {
		errOut.PrintError(inputErrorTitle(err), err, inputErrorTips(err)...)
		return errReported
	}

	if !quiet {
		out.PrintResult(ui.AnalysisSummary(filepath.Base(path), res.analysis, res.verdict))
		if showDict && res.analysis.HasDictionary() {
			out.PrintTextBox("Dictionary", res.analysis.Dictionary.Pretty(), 0)
		}
		out.PrintSuccess("Report written", ui.Field{Key: "Output", Value: res.output})
	}

	if !noBrowser && format == report.FormatHTML {
		launch(res.output)
	}
	return nil
}

// processImage analyzes one input and writes its report.
func processImage(analyzer *firmware.Analyzer, path string, format report.Format, multi bool) (*imageResult, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &inputError{Title: "Cannot read firmware", Path: path, Err: err}
	}
	logging.LogFile(path, len(buf))
	logging.LogRawBytes("Image header", buf[:min(len(buf), headerDumpBytes)])

	a, err := analyzer.Analyze(buf)
	if err != nil {
		return nil, &inputError{Title: "Cannot analyze firmware", Path: path, Err: err}
	}

	res := &imageResult{
		analysis: a,
		verdict:  report.Classify(a),
		output:   report.OutputPath(path, outputPath, outputDir, multi, format),
	}
	if err := report.WriteFile(res.output, format, filepath.Base(path), a, time.Now()); err != nil {
		return nil, &inputError{Title: "Cannot write report", Path: path, Err: err}
	}
	logging.LogReport(path, res.output, string(format))
	return res, nil
}

func inputErrorTitle(err error) string {
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.Title
	}
	return "Analysis failed"
}

func inputErrorTips(err error) []string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return []string{"Check the path and file name", "Klipper writes out/klipper.bin after 'make'", "Build guide: " + urls.Installation}
	case errors.Is(err, firmware.ErrImageTooShort):
		return []string{"The file is too small to be a firmware image", "Check the download or copy completed"}
	}
	return nil
}

// batchNote summarises an image on its progress line.
func batchNote(res *imageResult) string {
	a := res.analysis
	parts := []string{report.Hex32(a.LinkBase.Address)}
	if a.HasDictionary() {
		if mcu := a.Dictionary.MCU(); mcu != "" {
			parts = append(parts, mcu)
		}
	} else if !a.Valid() {
		parts = append(parts, "invalid vector table")
	} else {
		parts = append(parts, "no dictionary")
	}
	return strings.Join(parts, " · ")
}

// launch opens a report in the default browser. Failure is not fatal; the
// report is already on disk.
func launch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := openReport(abs); err != nil {
		logging.Warn("Could not open browser", zap.String("path", abs), zap.Error(err))
	}
}

// offsetsCmd prints the known bootloader offsets
var offsetsCmd = &cobra.Command{
	Use:   "offsets [firmware.bin]",
	Short: "List known bootloader offsets",
	Long: `Print the bootloader offsets the analyzer recognises, with the flash
address the application is linked at and the bootloader that uses each one.

Given a firmware image, the offset it was built for is marked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOffsets,
}

func runOffsets(cmd *cobra.Command, args []string) error {
	var match uint32
	var haveMatch bool
	if len(args) == 1 {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read firmware: %w", err)
		}
		a, err := firmware.NewAnalyzer(logging.GetLogger()).Analyze(buf)
		if err != nil {
			return err
		}
		match, haveMatch = a.BootloaderOffset()
	}

	printerFor(cmd.OutOrStdout()).PrintTextBox("Bootloader offsets", ui.OffsetTable(firmware.BootloaderOffsets(), match, haveMatch), 0)
	return nil
}

// configCmd groups preferences file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the preferences file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default preferences file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !forceConfig {
		if !ui.IsTerminal() {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
		if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Preferences file exists", []string{path}, "Replace it with defaults?") {
			return nil
		}
	}

	if err := config.NewSettings().SaveFile(path); err != nil {
		return err
	}
	printerFor(cmd.OutOrStdout()).PrintSuccess("Preferences written", ui.Field{Key: "Path", Value: path})
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if prefsErr != nil {
		return prefsErr
	}

	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	p := printerFor(cmd.OutOrStdout())
	p.PrintResult(ui.NewSuccessResult("Preferences",
		ui.Field{Key: "Path", Value: path},
		ui.Field{Key: "Open browser", Value: fmt.Sprint(prefs.OpenBrowser)},
		ui.Field{Key: "Format", Value: prefs.Format},
		ui.Field{Key: "Output dir", Value: orDefault(prefs.OutputDir, "next to input")},
		ui.Field{Key: "Log level", Value: orDefault(prefs.LogLevel, "silent")},
		ui.Field{Key: "Quiet", Value: fmt.Sprint(prefs.Quiet)},
	))
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

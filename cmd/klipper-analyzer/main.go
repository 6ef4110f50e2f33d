// Klipper-analyzer inspects Klipper firmware images built for ARM Cortex-M
// printer boards.
//
// It validates the vector table, decodes the data dictionary Klipper embeds
// in every build, and works out the flash address the image was linked for,
// which tells you which bootloader offset to select in "make menuconfig".
// All analysis is local; a standalone report is written next to each input.
//
// Usage:
//
//	klipper-analyzer firmware.bin [more.bin...] [flags]
//
// See 'klipper-analyzer --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/klipper-analyzer/internal/logging"
	"github.com/muurk/klipper-analyzer/internal/version"
)

// errReported marks failures that were already shown to the user in a
// result box.
var errReported = errors.New("failure already reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "klipper-analyzer firmware.bin [more.bin...]",
	Short: "Klipper firmware binary analyzer",
	Long: `Analyze Klipper firmware images for ARM Cortex-M boards.

For each image the analyzer validates the Cortex-M vector table, decodes the
embedded Klipper data dictionary (MCU, clock, serial pins, build version) and
resolves the flash link base, from which the bootloader offset follows.

A report is written next to each input (firmware.bin -> firmware_analysis.html)
and HTML reports are opened in the default browser. Nothing leaves your machine.`,
	Example: `  # Analyze one image and open the report
  klipper-analyzer klipper.bin

  # Write a JSON report without opening a browser
  klipper-analyzer klipper.bin --format json --no-browser

  # Analyze a batch into a reports directory
  klipper-analyzer *.bin --output-dir reports/`,
	Version:           version.Version,
	Args:              cobra.MinimumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadPreferences,
	RunE:              runAnalyze,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "klipper-analyzer %s\n", version.Full())
	},
}

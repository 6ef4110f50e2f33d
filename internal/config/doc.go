// Package config manages the klipper-analyzer preferences file.
//
// Preferences supply defaults for command-line flags: whether to open HTML
// reports in a browser, the report format, an output directory and the log
// level. Flags given on the command line always win.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/klipper-analyzer/config.yaml or $HOME/.config/klipper-analyzer/config.yaml
//   - macOS: $HOME/.config/klipper-analyzer/config.yaml
//   - Windows: %LOCALAPPDATA%\klipper-analyzer\config.yaml
//
// # Example
//
//	version: 1
//	preferences:
//	    open_browser: false
//	    format: json
//	    output_dir: /tmp/reports
//	    quiet: false
//
// # Thread Safety
//
// Load uses sync.Once; saves are serialised by a mutex and written atomically.
package config

package config

// currentVersion is the settings file schema version.
const currentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version     int          `yaml:"version"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Preferences are the defaults applied when a flag is not given on the command line.
type Preferences struct {
	OpenBrowser bool   `yaml:"open_browser"`         // Open HTML reports after writing them
	Format      string `yaml:"format"`               // Report format: html, json or yaml
	OutputDir   string `yaml:"output_dir,omitempty"` // Write reports here instead of next to the input
	LogLevel    string `yaml:"log_level,omitempty"`  // zap level; empty means silent
	Quiet       bool   `yaml:"quiet"`                // Suppress the console summary
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:     currentVersion,
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		OpenBrowser: true,
		Format:      "html",
	}
}

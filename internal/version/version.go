// Package version identifies the klipper-analyzer build. The same string is
// printed by the version command and stamped into every report.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Release builds stamp both values through the linker:
//
//	go build -ldflags="-X github.com/muurk/klipper-analyzer/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/klipper-analyzer/internal/version.Commit=1a2b3c4"
//
// Local builds fall back to the VCS stamp Go records in the binary.
var (
	Version = ""
	Commit  = ""
)

const shortCommitLen = 7

func init() {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	Version, Commit = resolve(Version, Commit, settings, time.Now())
}

// resolve fills in whichever of version and commit the linker left empty.
// Untagged builds are named after the commit date, or after now when the
// binary carries no VCS stamp.
func resolve(version, commit string, settings []debug.BuildSetting, now time.Time) (string, string) {
	vcs := make(map[string]string)
	for _, s := range settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			vcs[s.Key] = s.Value
		}
	}

	if commit == "" {
		commit = "unknown"
		if rev := vcs["vcs.revision"]; rev != "" {
			commit = rev[:min(len(rev), shortCommitLen)]
			if vcs["vcs.modified"] == "true" {
				commit += "-dirty"
			}
		}
	}

	if version == "" {
		version = "dev-" + now.Format("20060102-150405")
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}
	return version, commit
}

// Full is the version line shown by "klipper-analyzer version".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent names the tool in the footer of generated reports, e.g.
// "klipper-analyzer/v0.3.0".
func UserAgent() string {
	return "klipper-analyzer/" + Version
}

// Package version reports the kasactl build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/kasactl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/kasactl/internal/version.Commit=abc1234"
//
// Builds without ldflags fall back to the VCS stamp in the build info.
var (
	Version = ""
	Commit  = ""
)

// Info is the resolved build identity
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

var (
	once     sync.Once
	resolved Info
)

// Get returns the build identity, reading the build info once
func Get() Info {
	once.Do(func() {
		var settings []debug.BuildSetting
		if info, ok := debug.ReadBuildInfo(); ok {
			settings = info.Settings
		}
		resolved = resolve(Version, Commit, settings)
	})
	return resolved
}

// resolve fills whatever ldflags left empty from the VCS settings
func resolve(version, commit string, settings []debug.BuildSetting) Info {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if commit == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			commit = rev[:min(len(rev), 7)]
			if vcs["vcs.modified"] == "true" {
				commit += "-dirty"
			}
		} else {
			commit = "unknown"
		}
	}

	if version == "" {
		version = "dev"
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			version = "dev-" + t.UTC().Format("20060102")
		}
	}

	return Info{
		Version:   version,
		Commit:    commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the version with its commit
func Full() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s)", i.Version, i.Commit)
}

// Package version reports which build of fbundle is running.
//
// Release builds set the variables below with -ldflags:
//
//	go build -ldflags "-X 'github.com/drengskapur/fbundle/pkg/version.Version=1.2.3' -X 'github.com/drengskapur/fbundle/pkg/version.Commit=abcdefg'"
//
// Builds without ldflags (go install, go run) fall back to the module and VCS
// metadata the Go toolchain embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unset = "dev"

var (
	Version   = unset
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string // Release version, or the module version for go install builds.
	GitCommit string // Commit hash; a "-dirty" suffix marks a modified tree.
	BuildTime string // Build or commit timestamp.
	GoVersion string // Go runtime version.
	Platform  string // GOOS/GOARCH.
}

// Get returns version information for the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if Version == unset {
		if bi, ok := debug.ReadBuildInfo(); ok {
			info = fromBuildInfo(info, bi)
		}
	}
	return info
}

// fromBuildInfo fills fields still at their defaults from embedded build
// metadata.
func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}

	var revision, modified string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision != "" && info.GitCommit == "none" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		if modified == "true" {
			revision += "-dirty"
		}
		info.GitCommit = revision
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("fbundle version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}

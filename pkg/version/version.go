// Package version reports build information for a binary. Values are set
// with -ldflags at release time; otherwise the VCS stamps the Go toolchain
// embeds in the binary are used.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Example:
// go build -ldflags "-X 'admerge/pkg/version.Version=1.2.3' -X 'admerge/pkg/version.Commit=abcdefg' -X 'admerge/pkg/version.BuildTime=2024-04-27T15:04:05Z'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const shortCommit = 7

// Info describes one build of a named binary.
type Info struct {
	Name      string
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // OS/arch
}

// Get returns build information for the binary called name.
func Get(name string) Info {
	info := Info{
		Name:      name,
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

// withBuildInfo fills fields still at their ldflags defaults from bi.
func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}

	var revision, modified, vcsTime string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}
	if i.GitCommit == "none" && revision != "" {
		if len(revision) > shortCommit {
			revision = revision[:shortCommit]
		}
		if modified == "true" {
			revision += "-dirty"
		}
		i.GitCommit = revision
	}
	if i.BuildTime == "unknown" && vcsTime != "" {
		i.BuildTime = vcsTime
	}
	return i
}

// String formats i on a single line, e.g.
// admerge version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.23.1 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf(
		"%s version %s (commit: %s) built at %s with %s on %s",
		i.Name,
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}

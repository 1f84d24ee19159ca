package gomt

import (
	"runtime/debug"
	"sync"
)

// Name is the application name.
const Name = "gomt"

// Version, Commit and BuildDate are stamped at release time:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gomt.Commit=$(git rev-parse HEAD)"
//
// When Commit is left empty it is read from the VCS data the Go toolchain
// embeds in the binary.
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildDate = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

var readBuild = sync.OnceValue(func() BuildInfo {
	info := BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}
	if info.Commit != "" {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
})

// Build returns version details for the running binary.
func Build() BuildInfo {
	return readBuild()
}

// FullVersion returns Version with a short commit suffix when known,
// e.g. "0.1.0+3f2a9c1" or "0.1.0+3f2a9c1-dirty".
func FullVersion() string {
	info := Build()
	if info.Commit == "" {
		return info.Version
	}

	v := info.Version + "+" + shortCommit(info.Commit)
	if info.Modified {
		v += "-dirty"
	}
	return v
}

// UserAgent is sent with requests to model backends.
func UserAgent() string {
	return Name + "/" + Version
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

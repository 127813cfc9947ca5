// Package buildinfo reports the firmware version. The linker variables win;
// otherwise the VCS stamp the go command embeds is used.
package buildinfo

import "runtime/debug"

// Set with -ldflags "-X touchlamp/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// Short is the version tag, the first 7 characters of the commit, or "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		return c[:min(len(c), 7)]
	}
	return "dev"
}

func commit() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	dirty := false
	rev := ""
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev != "" && dirty {
		rev = rev[:min(len(rev), 7)] + "+"
	}
	return rev
}

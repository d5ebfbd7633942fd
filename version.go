package quill

import (
	_ "embed"
	"regexp"
	"runtime/debug"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

// Version returns the release from the embedded VERSION file, without `v`.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// IsSemver reports whether v matches SemVer 2.0.0.
func IsSemver(v string) bool {
	return semverRE.MatchString(strings.TrimSpace(v))
}

// BuildVersion returns Version followed by the VCS revision the running
// binary was built from, when the toolchain recorded one:
// "0.1.0 (1a2b3c4d5e6f, modified)".
func BuildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version()
	}
	return buildVersion(Version(), info.Settings)
}

func buildVersion(v string, settings []debug.BuildSetting) string {
	var rev string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return v
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += ", modified"
	}
	return v + " (" + rev + ")"
}

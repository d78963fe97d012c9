// Package buildinfo identifies the firmware build in the readiness banner,
// the host window and -version output.
package buildinfo

import "fmt"

// Name is the firmware name shown to the user.
const Name = "splitkb"

// Version, Commit and Date are set at build time via -ldflags, e.g.
//
//	-X splitkb/internal/buildinfo.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release version, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Banner is the line printed once the host link is ready.
func Banner() string {
	return "Ready (" + Name + " " + Short() + ")"
}

// Title labels the host window.
func Title() string {
	return Name + " (" + Short() + ")"
}

// String describes the build in full.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, Commit, Date)
}

package buildinfo

import "runtime/debug"

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// Version prefers the ldflags value and falls back to the module version
// recorded by the toolchain (go install ...@vX.Y.Z).
func Version() string {
	if BinaryVersion != "" && BinaryVersion != "dev" {
		return BinaryVersion
	}
	if v := ModuleVersion(); v != "" && v != "(devel)" {
		return v
	}
	return "dev"
}

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

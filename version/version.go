// Package version reports the build version of the ass-lsp binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const modulePath = "github.com/lex00/ass-lsp-go"

// override is set at link time:
//
//	go build -ldflags "-X github.com/lex00/ass-lsp-go/version.override=v1.2.3"
var override string

// Version returns the link-time version, else the module version from build
// info, else "dev".
func Version() string {
	if override != "" {
		return override
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				return dep.Version
			}
		}
	}
	return "dev"
}

// String is the banner printed by "ass-lsp --version" and sent as the
// server version during initialization.
func String() string {
	return fmt.Sprintf("%s (%s %s/%s)", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// ModulePath returns the canonical module path.
func ModulePath() string {
	return modulePath
}

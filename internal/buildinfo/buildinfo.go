// Package buildinfo carries version identifiers stamped at build time
// via -ldflags, falling back to module build metadata.
package buildinfo

import (
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	commit, builtAt := Commit, BuiltAt
	if commit == "" || builtAt == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, kv := range bi.Settings {
				switch kv.Key {
				case "vcs.revision":
					if commit == "" {
						commit = kv.Value
					}
				case "vcs.time":
					if builtAt == "" {
						builtAt = kv.Value
					}
				}
			}
		}
	}
	return map[string]string{
		"version": Version,
		"commit":  commit,
		"builtAt": builtAt,
	}
}

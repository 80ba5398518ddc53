package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBin matches the binary names the dlv debugger produces.
var debugBin = regexp.MustCompile(`^__debug_bin\d+$`)

// Prefix returns the identifier used to name the configuration and cache
// directories and to prefix environment variables. It is the executable's
// base name with any extension stripped; leading dots are removed, and a
// dlv debug binary reports as [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = strings.TrimLeft(id, ".")

		if id == "" || debugBin.MatchString(id) {
			return Name
		}

		return id
	},
)

// userDir composes a per-user directory for this program. When the
// platform lookup fails it falls back to a dot directory under the home
// directory, then to the working directory.
func userDir(lookup func() (string, error), dotName string) string {
	if dir, err := lookup(); err == nil {
		return filepath.Join(dir, Prefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dotName, Prefix())
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the directory holding avon's configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory for transient files such as REPL history
// and profiling output.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

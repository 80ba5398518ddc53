// Package pkg holds project-wide metadata referenced by the CLI and
// build tooling.
package pkg

import (
	_ "embed"
)

// Version is the module's semantic version, embedded at build time and
// printed by the --version flag.
//
//go:embed VERSION
var Version string //nolint:gochecknoglobals

const (
	// Name is the command and module identifier. It appears in help
	// text and in the default config and cache paths.
	Name = "avon"

	// Description summarizes the project for help output.
	Description = "Functional template language and file generator"
)

// AuthorInfo identifies one project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project's maintainers.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{Name: "avon-lang", Email: "maintainers@avon-lang.org"},
}

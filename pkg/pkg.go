// Package pkg holds the identity of the stache module: its name, version and
// authors, as shown in help output and used to name configuration paths.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, read from the VERSION file
// at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name and the base name of its configuration and
	// cache directories.
	Name = "stache"

	// Description is the one-line summary shown in help output.
	Description = "Logic-less Mustache template renderer"
)

// AuthorInfo is an author's name and contact address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

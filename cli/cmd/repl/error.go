package repl

import "github.com/ardnew/stache/cli/cmd"

var (
	ErrOutOfBounds  = cmd.NewError("history index out of range")
	ErrEditDeclined = cmd.NewError("edit declined")
	ErrNoCacheDir   = cmd.NewError("cache directory undefined")
)

package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotLoggedIn     = errors.New("not logged in, run `proof auth login` first")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoSpace         = errors.New("no space selected, pass --space or run `proof space show <id>`")
)

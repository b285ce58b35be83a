package userdb

import "regexp"

var usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// ValidUsername enforces Ubuntu-style username requirements:
// lowercase letters/digits/underscore/dash, starting with a letter or
// underscore. Target names from the command line are validated before
// any lookup.
func ValidUsername(u string) bool {
	return usernameRe.MatchString(u)
}

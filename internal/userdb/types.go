package userdb

type PasswdEntry struct {
	Name   string
	Passwd string
	UID    int
	GID    int
	Gecos  string
	Home   string
	Shell  string
}

type ShadowEntry struct {
	Name       string
	Hash       string
	LastChange string
	Min        string
	Max        string
	Warn       string
	Inactive   string
	Expire     string
	Reserved   string
}

type GroupEntry struct {
	Name    string
	Passwd  string
	GID     int
	Members []string
}

// Identity is a fully resolved user: the passwd record plus every
// group id the user belongs to. Two roles exist per invocation: the
// invoker (real, unprivileged) and the target (requested).
type Identity struct {
	Name   string
	UID    int
	GID    int
	Groups []int // supplementary gids, primary included
	Home   string
	Shell  string
}

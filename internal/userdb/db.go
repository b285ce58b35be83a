package userdb

import (
	"errors"
	"sort"

	"github.com/hnrobert/elev/internal/sysfs"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
)

// DB locates the system identity files. Paths are explicit so tests
// can point at fixtures.
type DB struct {
	PasswdPath string
	GroupPath  string
	ShadowPath string
}

func Open() *DB {
	return &DB{
		PasswdPath: sysfs.PasswdPath,
		GroupPath:  sysfs.GroupPath,
		ShadowPath: sysfs.ShadowPath,
	}
}

// Resolve looks a user up by name and returns the full identity,
// including every gid the user belongs to.
func (db *DB) Resolve(name string) (Identity, error) {
	pf, err := LoadPasswd(db.PasswdPath)
	if err != nil {
		return Identity{}, err
	}
	e := pf.Find(name)
	if e == nil {
		return Identity{}, ErrUserNotFound
	}
	return db.identityFor(e)
}

// ResolveUID looks a user up by uid. Used to name the invoker from the
// real uid of the process.
func (db *DB) ResolveUID(uid int) (Identity, error) {
	pf, err := LoadPasswd(db.PasswdPath)
	if err != nil {
		return Identity{}, err
	}
	e := pf.FindByUID(uid)
	if e == nil {
		return Identity{}, ErrUserNotFound
	}
	return db.identityFor(e)
}

func (db *DB) identityFor(e *PasswdEntry) (Identity, error) {
	gf, err := LoadGroup(db.GroupPath)
	if err != nil {
		return Identity{}, err
	}
	var gids []int
	for _, g := range gf.MemberOf(e.Name, e.GID) {
		gids = append(gids, g.GID)
	}
	if len(gids) == 0 {
		gids = []int{e.GID}
	}
	sort.Ints(gids)
	return Identity{
		Name:   e.Name,
		UID:    e.UID,
		GID:    e.GID,
		Groups: gids,
		Home:   e.Home,
		Shell:  e.Shell,
	}, nil
}

// GroupNames returns the names of every group the user belongs to,
// primary group included. Policy subjects written as %group match
// against this set.
func (db *DB) GroupNames(name string) ([]string, error) {
	pf, err := LoadPasswd(db.PasswdPath)
	if err != nil {
		return nil, err
	}
	e := pf.Find(name)
	if e == nil {
		return nil, ErrUserNotFound
	}
	gf, err := LoadGroup(db.GroupPath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, g := range gf.MemberOf(e.Name, e.GID) {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names, nil
}

// ShadowHash returns the stored password hash for the user. The caller
// runs as root (setuid), so /etc/shadow is readable.
func (db *DB) ShadowHash(name string) (string, error) {
	sf, err := LoadShadow(db.ShadowPath)
	if err != nil {
		return "", err
	}
	e := sf.Find(name)
	if e == nil {
		return "", ErrUserNotFound
	}
	return e.Hash, nil
}

package userdb

// Package userdb reads the system identity database.
//
// Files:
//   /etc/passwd   users (name, uid, gid, home, shell)
//   /etc/group    groups and memberships
//   /etc/shadow   password hashes (root-readable only)
//
// Access is strictly read-only: elev never mutates these files. The
// package is the single place raw colon-separated records are decoded;
// callers get typed entries and an explicit ErrUserNotFound instead of
// nil-pointer chains.

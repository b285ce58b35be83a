package policy

// Package policy loads and evaluates /etc/elev.conf.
//
// The file is YAML: a cache timeout in seconds and an ordered rule
// list. Each rule names a subject (a username, or %group for a group),
// the targets the subject may become (usernames or ALL), and whether a
// password is required:
//
//   timeout: 300
//   rules:
//     - subject: alice
//       targets: [ALL]
//       password: false
//     - subject: "%wheel"
//       targets: [root]
//       password: true
//
// Rules are evaluated in file order and the first match wins. A file
// that is missing, malformed, or writable by anyone but root is
// refused outright: a world-writable policy is itself a privilege
// hole, so it is never trusted.

package auth

// Package auth challenges the invoker for their own password and
// validates it against the system credential database.
//
// elev always authenticates the person running it, never the target.
// This matches sudo and doas semantics. Verification reads the
// invoker's /etc/shadow hash and checks it against the common crypt
// formats; hosts using a format Go cannot verify (yescrypt) fall back
// to driving su(1) behind a pty. Attempts are bounded; the secret is
// never logged and never leaves this package.

package cache

// Package cache remembers successful authentications for a grace
// window so the invoker is not prompted on every call.
//
// One record per (invoker, controlling terminal) lives under a
// root-owned 0700 directory (/var/lib/elev by default). A record is an
// HMAC-signed token carrying only the grant time: no password, no
// hash. The signing secret is generated on first use and kept next to
// the records, owner-only.
//
// Trust is fail-closed. A record counts only if the directory, the
// secret, and the record itself are owned by the privileged principal
// and inaccessible to others, the signature verifies, the grant time
// is not in the future, and the window has not elapsed. Any read
// error, tampering signal, or parse failure makes the record invalid;
// it never becomes an error on the happy path.
//
// Writes are temp-file-then-rename so concurrent invocations by the
// same user never observe a partial record as valid.

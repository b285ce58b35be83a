package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hnrobert/elev/internal/sysfs"
)

const secretName = ".secret"

// Store is the on-disk credential cache. Dir and OwnerUID are explicit
// so tests can run against a temp directory as an unprivileged user.
type Store struct {
	Dir      string
	OwnerUID int

	now func() time.Time
}

func New(dir string, ownerUID int) *Store {
	return &Store{Dir: dir, OwnerUID: ownerUID, now: time.Now}
}

// Key derives the record name for an invoker on a terminal. Records
// are scoped per terminal so a grant in one session does not leak into
// an unrelated session of the same user.
func Key(user, tty string) string {
	tty = strings.TrimPrefix(tty, "/dev/")
	tty = strings.ReplaceAll(tty, "/", "-")
	if tty == "" {
		tty = "notty"
	}
	return user + "__" + tty
}

// CurrentTTY names the controlling terminal of this process, or ""
// when stdin is not attached to one.
func CurrentTTY() string {
	tty, err := os.Readlink("/proc/self/fd/0")
	if err != nil || !strings.HasPrefix(tty, "/dev/") {
		return ""
	}
	return tty
}

// Record writes the current time as a fresh grant for key, creating
// the cache directory and signing secret on first use. The write is
// atomic; an existing record is overwritten.
func (s *Store) Record(key string) error {
	if err := sysfs.EnsureDir(s.Dir, 0700); err != nil {
		return err
	}
	secret, err := s.ensureSecret()
	if err != nil {
		return err
	}
	token, err := signSession(secret, key, s.now())
	if err != nil {
		return err
	}
	return sysfs.WriteFileAtomic(s.recordPath(key), []byte(token), 0600)
}

// IsValid reports whether key holds an unexpired grant. Every failure
// mode (missing record, wrong ownership, loose permissions, bad
// signature, future grant time, elapsed window) reads as false, never
// as an error.
func (s *Store) IsValid(key string, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	if !s.private(s.Dir) {
		return false
	}
	secret, err := s.readSecret()
	if err != nil {
		return false
	}
	path := s.recordPath(key)
	if !s.private(path) {
		return false
	}
	b, err := sysfs.ReadFile(path)
	if err != nil {
		return false
	}
	grantedAt, err := parseSession(secret, string(b), key)
	if err != nil {
		return false
	}
	now := s.now()
	if grantedAt.After(now) {
		return false
	}
	return now.Sub(grantedAt) < timeout
}

// Invalidate removes the record for key. Removing an absent record is
// not an error.
func (s *Store) Invalidate(key string) error {
	err := os.Remove(s.recordPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) recordPath(key string) string {
	return filepath.Join(s.Dir, key)
}

func (s *Store) private(path string) bool {
	own, err := sysfs.StatOwner(path)
	if err != nil {
		return false
	}
	return own.PrivateTo(s.OwnerUID)
}

func (s *Store) ensureSecret() ([]byte, error) {
	secret, err := s.readSecret()
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	secret, err = newSecret(32)
	if err != nil {
		return nil, err
	}
	if err := sysfs.WriteFileAtomic(filepath.Join(s.Dir, secretName), secret, 0600); err != nil {
		return nil, err
	}
	return secret, nil
}

func (s *Store) readSecret() ([]byte, error) {
	path := filepath.Join(s.Dir, secretName)
	b, err := sysfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !s.private(path) {
		return nil, errBadToken
	}
	return b, nil
}

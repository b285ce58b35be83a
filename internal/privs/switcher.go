package privs

// Package privs performs the irreversible transition from the real
// (invoking) identity to the resolved target identity.
//
// The order is fixed and security-critical: supplementary groups
// first, then the primary gid, then the uid last. Once the uid leaves
// the privileged value the process can no longer change groups, so a
// reordering would leave the invoker's groups attached to the target
// uid. Any step failing must abort the invocation; continuing with a
// partially dropped privilege set is never acceptable.

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/hnrobert/elev/internal/userdb"
)

var ErrIncompleteSwitch = errors.New("privilege switch incomplete")

// Switcher commits identity transitions. The syscall hooks default to
// the real thing and exist so tests can inject failures at each step
// and observe the ordering.
type Switcher struct {
	setgroups func(gids []int) error
	setgid    func(gid int) error
	setuid    func(uid int) error
	getuid    func() int
	getgid    func() int
}

func NewSwitcher() *Switcher {
	return &Switcher{
		setgroups: unix.Setgroups,
		setgid:    unix.Setgid,
		setuid:    unix.Setuid,
		getuid:    unix.Getuid,
		getgid:    unix.Getgid,
	}
}

// Commit switches the process to target. On success there is no path
// back to the original identity. On any failure the caller must treat
// the invocation as fatal and never launch the command.
func (s *Switcher) Commit(target userdb.Identity) error {
	groups := target.Groups
	if len(groups) == 0 {
		groups = []int{target.GID}
	}
	// Clears every group inherited from the invoker.
	if err := s.setgroups(groups); err != nil {
		return fmt.Errorf("%w: setgroups: %v", ErrIncompleteSwitch, err)
	}
	if err := s.setgid(target.GID); err != nil {
		return fmt.Errorf("%w: setgid %d: %v", ErrIncompleteSwitch, target.GID, err)
	}
	// uid last: after this the process can no longer adjust groups.
	if err := s.setuid(target.UID); err != nil {
		return fmt.Errorf("%w: setuid %d: %v", ErrIncompleteSwitch, target.UID, err)
	}
	if s.getuid() != target.UID || s.getgid() != target.GID {
		return fmt.Errorf("%w: identity did not stick (uid=%d gid=%d)",
			ErrIncompleteSwitch, s.getuid(), s.getgid())
	}
	return nil
}

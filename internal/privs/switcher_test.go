package privs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hnrobert/elev/internal/userdb"
)

// fakeSwitcher records each step so tests can assert the exact order
// and inject a failure at any point.
type fakeSwitcher struct {
	*Switcher
	calls  []string
	groups []int
	gid    int
	uid    int
}

func newFakeSwitcher(failAt string) *fakeSwitcher {
	f := &fakeSwitcher{uid: -1, gid: -1}
	fail := func(step string) error {
		if step == failAt {
			return errors.New(step + " refused")
		}
		return nil
	}
	f.Switcher = &Switcher{
		setgroups: func(gids []int) error {
			f.calls = append(f.calls, "setgroups")
			if err := fail("setgroups"); err != nil {
				return err
			}
			f.groups = gids
			return nil
		},
		setgid: func(gid int) error {
			f.calls = append(f.calls, "setgid")
			if err := fail("setgid"); err != nil {
				return err
			}
			f.gid = gid
			return nil
		},
		setuid: func(uid int) error {
			f.calls = append(f.calls, "setuid")
			if err := fail("setuid"); err != nil {
				return err
			}
			f.uid = uid
			return nil
		},
		getuid: func() int { return f.uid },
		getgid: func() int { return f.gid },
	}
	return f
}

var testTarget = userdb.Identity{
	Name:   "root",
	UID:    0,
	GID:    0,
	Groups: []int{0, 4},
	Home:   "/root",
	Shell:  "/bin/bash",
}

func TestCommitOrder(t *testing.T) {
	f := newFakeSwitcher("")
	if err := f.Commit(testTarget); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	want := []string{"setgroups", "setgid", "setuid"}
	if !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
	if !reflect.DeepEqual(f.groups, []int{0, 4}) {
		t.Errorf("groups = %v, want [0 4]", f.groups)
	}
	if f.gid != 0 || f.uid != 0 {
		t.Errorf("gid=%d uid=%d, want 0/0", f.gid, f.uid)
	}
}

func TestCommitEmptyGroupsFallsBackToPrimary(t *testing.T) {
	f := newFakeSwitcher("")
	target := testTarget
	target.Groups = nil
	if err := f.Commit(target); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !reflect.DeepEqual(f.groups, []int{0}) {
		t.Errorf("groups = %v, want [0]", f.groups)
	}
}

func TestCommitFailures(t *testing.T) {
	steps := []struct {
		failAt    string
		wantCalls []string
	}{
		{"setgroups", []string{"setgroups"}},
		{"setgid", []string{"setgroups", "setgid"}},
		{"setuid", []string{"setgroups", "setgid", "setuid"}},
	}
	for _, tc := range steps {
		t.Run(tc.failAt, func(t *testing.T) {
			f := newFakeSwitcher(tc.failAt)
			err := f.Commit(testTarget)
			if !errors.Is(err, ErrIncompleteSwitch) {
				t.Fatalf("err = %v, want ErrIncompleteSwitch", err)
			}
			if !reflect.DeepEqual(f.calls, tc.wantCalls) {
				t.Errorf("calls = %v, want %v", f.calls, tc.wantCalls)
			}
			// No step after the failing one may have run.
			if tc.failAt != "setuid" && f.uid != -1 {
				t.Error("uid changed after an earlier step failed")
			}
		})
	}
}

func TestCommitDetectsIdentityNotSticking(t *testing.T) {
	f := newFakeSwitcher("")
	// All syscalls report success but the uid check disagrees.
	f.Switcher.getuid = func() int { return 1000 }
	if err := f.Commit(testTarget); !errors.Is(err, ErrIncompleteSwitch) {
		t.Fatalf("err = %v, want ErrIncompleteSwitch", err)
	}
}

package sysfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic replaces path with data via a temp file in the same
// directory. The rename is the commit point: a reader racing with the
// write observes either the old content or the new, never a mix.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".elev-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func EnsureDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Ownership describes who owns a file and how it is protected.
type Ownership struct {
	UID  int
	GID  int
	Mode fs.FileMode
}

// StatOwner returns the owner and permission bits of path.
func StatOwner(path string) (Ownership, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Ownership{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return Ownership{
		UID:  int(st.Uid),
		GID:  int(st.Gid),
		Mode: fs.FileMode(st.Mode & 0777),
	}, nil
}

// PrivateTo reports whether the file is owned by uid and inaccessible
// to everyone else (mode 0600/0700 or stricter).
func (o Ownership) PrivateTo(uid int) bool {
	return o.UID == uid && o.Mode&0077 == 0
}

package userdb

import (
	"bytes"

	"github.com/hnrobert/elev/internal/sysfs"
)

type PasswdFile struct {
	entries []PasswdEntry
}

func LoadPasswd(path string) (*PasswdFile, error) {
	b, err := sysfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f PasswdFile
	for _, line := range lines {
		if skippable(line) {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 7 {
			// NSS-style entries (+/-) and other oddities are not users.
			continue
		}
		uid, err := atoi(parts[2], "passwd.uid")
		if err != nil {
			return nil, err
		}
		gid, err := atoi(parts[3], "passwd.gid")
		if err != nil {
			return nil, err
		}
		f.entries = append(f.entries, PasswdEntry{
			Name:   parts[0],
			Passwd: parts[1],
			UID:    uid,
			GID:    gid,
			Gecos:  parts[4],
			Home:   parts[5],
			Shell:  parts[6],
		})
	}
	return &f, nil
}

func (f *PasswdFile) Find(name string) *PasswdEntry {
	for i := range f.entries {
		if f.entries[i].Name == name {
			return &f.entries[i]
		}
	}
	return nil
}

func (f *PasswdFile) FindByUID(uid int) *PasswdEntry {
	for i := range f.entries {
		if f.entries[i].UID == uid {
			return &f.entries[i]
		}
	}
	return nil
}

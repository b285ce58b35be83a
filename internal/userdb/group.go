package userdb

import (
	"bytes"
	"strings"

	"github.com/hnrobert/elev/internal/sysfs"
)

type GroupFile struct {
	entries []GroupEntry
}

func LoadGroup(path string) (*GroupFile, error) {
	b, err := sysfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f GroupFile
	for _, line := range lines {
		if skippable(line) {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 4 {
			continue
		}
		gid, err := atoi(parts[2], "group.gid")
		if err != nil {
			return nil, err
		}
		members := []string{}
		if parts[3] != "" {
			members = strings.Split(parts[3], ",")
		}
		f.entries = append(f.entries, GroupEntry{
			Name:    parts[0],
			Passwd:  parts[1],
			GID:     gid,
			Members: members,
		})
	}
	return &f, nil
}

func (f *GroupFile) Find(name string) *GroupEntry {
	for i := range f.entries {
		if f.entries[i].Name == name {
			return &f.entries[i]
		}
	}
	return nil
}

func (f *GroupFile) FindByGID(gid int) *GroupEntry {
	for i := range f.entries {
		if f.entries[i].GID == gid {
			return &f.entries[i]
		}
	}
	return nil
}

// MemberOf returns every group the user belongs to, either via the
// group's member list or because the group is the user's primary one.
func (f *GroupFile) MemberOf(name string, primaryGID int) []GroupEntry {
	var out []GroupEntry
	for _, g := range f.entries {
		if g.GID == primaryGID {
			out = append(out, g)
			continue
		}
		for _, m := range g.Members {
			if m == name {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

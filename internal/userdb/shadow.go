package userdb

import (
	"bytes"

	"github.com/hnrobert/elev/internal/sysfs"
)

type ShadowFile struct {
	entries []ShadowEntry
}

func LoadShadow(path string) (*ShadowFile, error) {
	b, err := sysfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f ShadowFile
	for _, line := range lines {
		if skippable(line) {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 2 {
			continue
		}
		for len(parts) < 9 {
			parts = append(parts, "")
		}
		f.entries = append(f.entries, ShadowEntry{
			Name:       parts[0],
			Hash:       parts[1],
			LastChange: parts[2],
			Min:        parts[3],
			Max:        parts[4],
			Warn:       parts[5],
			Inactive:   parts[6],
			Expire:     parts[7],
			Reserved:   parts[8],
		})
	}
	return &f, nil
}

func (f *ShadowFile) Find(name string) *ShadowEntry {
	for i := range f.entries {
		if f.entries[i].Name == name {
			return &f.entries[i]
		}
	}
	return nil
}

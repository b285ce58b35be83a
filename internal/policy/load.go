package policy

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hnrobert/elev/internal/sysfs"
)

var (
	ErrNotFound  = errors.New("policy file not found")
	ErrMalformed = errors.New("policy file malformed")
	ErrInsecure  = errors.New("policy file has insecure ownership or permissions")
)

// fileSchema is the on-disk shape. Timeout is plain seconds.
type fileSchema struct {
	Timeout int    `yaml:"timeout"`
	Rules   []Rule `yaml:"rules"`
}

// Load reads and validates the policy file. The file must be owned by
// root and mode 0600 or stricter; anything looser is refused with
// ErrInsecure rather than trusted.
func Load(path string) (*Policy, error) {
	return LoadOwned(path, 0)
}

// LoadOwned is Load with an explicit required owner. Tests use it with
// their own uid since they cannot create root-owned files.
func LoadOwned(path string, ownerUID int) (*Policy, error) {
	own, err := sysfs.StatOwner(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if !own.PrivateTo(ownerUID) {
		return nil, fmt.Errorf("%w: %s is uid %d mode %04o, need uid %d mode 0600 or stricter",
			ErrInsecure, path, own.UID, own.Mode, ownerUID)
	}

	b, err := sysfs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var raw fileSchema
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if raw.Timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %d", ErrMalformed, raw.Timeout)
	}
	for i, r := range raw.Rules {
		if r.Subject == "" || r.Subject == GroupPrefix {
			return nil, fmt.Errorf("%w: rule %d has no subject", ErrMalformed, i)
		}
		if len(r.Targets) == 0 {
			return nil, fmt.Errorf("%w: rule %d has no targets", ErrMalformed, i)
		}
		for _, t := range r.Targets {
			if t == "" {
				return nil, fmt.Errorf("%w: rule %d has an empty target", ErrMalformed, i)
			}
		}
	}

	return &Policy{
		Timeout: time.Duration(raw.Timeout) * time.Second,
		Rules:   raw.Rules,
	}, nil
}

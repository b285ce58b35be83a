package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePolicy(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elev.conf")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
	return path
}

const samplePolicy = `
timeout: 300
rules:
  - subject: alice
    targets: [ALL]
    password: false
  - subject: "%wheel"
    targets: [root]
    password: true
  - subject: bob
    targets: [root, backup]
    password: true
`

func TestLoad(t *testing.T) {
	path := writePolicy(t, samplePolicy, 0600)
	p, err := LoadOwned(path, os.Getuid())
	if err != nil {
		t.Fatalf("LoadOwned: %v", err)
	}
	if p.Timeout != 300*time.Second {
		t.Errorf("timeout = %v, want 300s", p.Timeout)
	}
	if len(p.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(p.Rules))
	}
	if p.Rules[0].Subject != "alice" || p.Rules[0].Password {
		t.Errorf("rule 0 = %+v, want alice without password", p.Rules[0])
	}
	if p.Rules[1].Subject != "%wheel" || !p.Rules[1].Password {
		t.Errorf("rule 1 = %+v, want %%wheel with password", p.Rules[1])
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := LoadOwned(filepath.Join(t.TempDir(), "missing.conf"), os.Getuid())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "timeout: [",
		"unknown field":    "timeout: 10\nbogus: true\n",
		"negative timeout": "timeout: -5\nrules: []\n",
		"empty subject":    "timeout: 10\nrules:\n  - subject: \"\"\n    targets: [root]\n",
		"no targets":       "timeout: 10\nrules:\n  - subject: alice\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writePolicy(t, content, 0600)
			_, err := LoadOwned(path, os.Getuid())
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestLoadInsecurePermissions(t *testing.T) {
	for _, mode := range []os.FileMode{0666, 0644, 0640, 0604} {
		path := writePolicy(t, samplePolicy, mode)
		if _, err := LoadOwned(path, os.Getuid()); !errors.Is(err, ErrInsecure) {
			t.Errorf("mode %04o: err = %v, want ErrInsecure", mode, err)
		}
	}
}

func TestLoadWrongOwner(t *testing.T) {
	path := writePolicy(t, samplePolicy, 0600)
	// Required owner differs from the file's actual owner.
	if _, err := LoadOwned(path, os.Getuid()+1); !errors.Is(err, ErrInsecure) {
		t.Errorf("err = %v, want ErrInsecure", err)
	}
}

func loadSample(t *testing.T) *Policy {
	t.Helper()
	path := writePolicy(t, samplePolicy, 0600)
	p, err := LoadOwned(path, os.Getuid())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEvaluateByName(t *testing.T) {
	p := loadSample(t)

	d := p.Evaluate("alice", nil, "root")
	if !d.Allowed || d.Password {
		t.Errorf("alice -> root = %+v, want allowed without password", d)
	}
	// Wildcard covers arbitrary targets.
	d = p.Evaluate("alice", nil, "postgres")
	if !d.Allowed {
		t.Errorf("alice -> postgres = %+v, want allowed", d)
	}

	d = p.Evaluate("bob", nil, "backup")
	if !d.Allowed || !d.Password {
		t.Errorf("bob -> backup = %+v, want allowed with password", d)
	}
	d = p.Evaluate("bob", nil, "postgres")
	if d.Allowed {
		t.Errorf("bob -> postgres = %+v, want denied", d)
	}
}

func TestEvaluateByGroup(t *testing.T) {
	p := loadSample(t)

	d := p.Evaluate("carol", []string{"users", "wheel"}, "root")
	if !d.Allowed || !d.Password {
		t.Errorf("carol(wheel) -> root = %+v, want allowed with password", d)
	}
	if d := p.Evaluate("carol", []string{"users"}, "root"); d.Allowed {
		t.Errorf("carol(users) -> root = %+v, want denied", d)
	}
	// A user literally named "wheel" must not match the %wheel subject.
	if d := p.Evaluate("wheel", nil, "root"); d.Allowed {
		t.Errorf("user wheel -> root = %+v, want denied", d)
	}
}

func TestEvaluateNoRuleDenies(t *testing.T) {
	p := loadSample(t)
	if d := p.Evaluate("mallory", []string{"mallory"}, "root"); d.Allowed {
		t.Errorf("mallory -> root = %+v, want denied", d)
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	// A broad rule followed by a narrower rule for the same subject:
	// only the first rule's outcome applies.
	p := &Policy{Rules: []Rule{
		{Subject: "alice", Targets: []string{"ALL"}, Password: true},
		{Subject: "alice", Targets: []string{"root"}, Password: false},
	}}
	d := p.Evaluate("alice", nil, "root")
	if !d.Allowed || !d.Password {
		t.Errorf("decision = %+v, want first rule (password required)", d)
	}
}

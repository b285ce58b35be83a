package launch

// Package launch replaces the process image with the requested program
// under the already-adopted target identity.
//
// The environment is built fresh: HOME, USER, LOGNAME, SHELL, and a
// fixed PATH, plus PS1 for login shells. Nothing from the invoker's
// environment survives, so variables like LD_PRELOAD or a poisoned
// PATH cannot ride along into the elevated process. Arguments are
// passed to exec verbatim; no shell ever re-interprets them.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hnrobert/elev/internal/userdb"
)

var (
	ErrCommandNotFound = errors.New("command not found")
	ErrNotExecutable   = errors.New("permission denied")
)

// securePath is the fixed PATH handed to elevated commands. The
// invoker's PATH is never consulted for resolution or inherited.
const securePath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Executor launches programs by process replacement. Exec and Chdir
// default to the real syscalls; tests swap them to capture the launch
// instead of being replaced.
type Executor struct {
	Exec  func(argv0 string, argv []string, env []string) error
	Chdir func(dir string) error
}

func NewExecutor() *Executor {
	return &Executor{
		Exec:  syscall.Exec,
		Chdir: os.Chdir,
	}
}

// Run resolves program against the fixed PATH and execs it with args
// verbatim. On success the call never returns because the process
// image is gone. Every return is therefore a failure: a missing
// program, a non-executable file, or the exec itself failing.
func (e *Executor) Run(target userdb.Identity, program string, args []string) error {
	path, err := resolveProgram(program)
	if err != nil {
		return err
	}
	argv := append([]string{program}, args...)
	if err := e.Exec(path, argv, BuildEnv(target, false)); err != nil {
		return fmt.Errorf("exec %s: %w", program, err)
	}
	// Exec returned nil without replacing the process: still a failure.
	return fmt.Errorf("exec %s: %w", program, errReturned)
}

// RunLoginShell execs the target's shell as a login shell ("-l") from
// the target's home directory.
func (e *Executor) RunLoginShell(target userdb.Identity) error {
	shell := target.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	if err := e.Chdir(target.Home); err != nil {
		return fmt.Errorf("chdir %s: %w", target.Home, err)
	}
	argv := []string{shell, "-l"}
	if err := e.Exec(shell, argv, BuildEnv(target, true)); err != nil {
		return fmt.Errorf("exec %s: %w", shell, err)
	}
	return fmt.Errorf("exec %s: %w", shell, errReturned)
}

var errReturned = errors.New("process was not replaced")

// BuildEnv constructs the minimal environment for the target identity.
// The invoker's environment is discarded wholesale.
func BuildEnv(target userdb.Identity, login bool) []string {
	env := []string{
		"HOME=" + target.Home,
		"USER=" + target.Name,
		"LOGNAME=" + target.Name,
		"SHELL=" + target.Shell,
		"PATH=" + securePath,
	}
	if login {
		env = append(env, `PS1=\u@\h: \w\$ `)
	}
	return env
}

// resolveProgram maps a program name to an absolute path. Names with a
// path separator are used as given; bare names are searched on the
// fixed PATH only.
func resolveProgram(program string) (string, error) {
	if strings.Contains(program, "/") {
		return checkExecutable(program)
	}
	for _, dir := range filepath.SplitList(securePath) {
		candidate := filepath.Join(dir, program)
		path, err := checkExecutable(candidate)
		if err == nil {
			return path, nil
		}
		if errors.Is(err, ErrNotExecutable) {
			return "", fmt.Errorf("%w: %s", ErrNotExecutable, program)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrCommandNotFound, program)
}

func checkExecutable(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrCommandNotFound, path)
		}
		return "", err
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotExecutable, path)
	}
	return path, nil
}

package engine

// Package engine runs the authorization-and-privilege-transition
// pipeline for one invocation:
//
//   Start -> PolicyLoaded -> Authorized -> [CacheValid | Authenticated]
//         -> PrivilegeDropped -> Executing
//
// Every stage failure is terminal; only the authenticator retries
// internally, and only within its attempt ceiling. The collaborators
// are narrow interfaces so the whole pipeline is testable without
// root, a terminal, or a real exec.

import (
	"errors"
	"time"

	"github.com/hnrobert/elev/internal/logger"
	"github.com/hnrobert/elev/internal/policy"
	"github.com/hnrobert/elev/internal/userdb"
)

var (
	// ErrRootInvoker means the real uid was 0. elev is never run
	// directly by root; the refusal happens before any policy input
	// is considered.
	ErrRootInvoker = errors.New("refusing to run for uid 0")

	// ErrNotAuthorized means no policy rule grants the requested
	// target to the invoker.
	ErrNotAuthorized = errors.New("not authorized by policy")
)

// CredentialCache is the time-boxed memory of prior authentications.
type CredentialCache interface {
	IsValid(key string, timeout time.Duration) bool
}

// Authenticator performs the interactive password challenge and
// records success in the cache itself.
type Authenticator interface {
	Challenge(username string) error
}

// Switcher commits the irreversible identity transition.
type Switcher interface {
	Commit(target userdb.Identity) error
}

// Executor replaces the process image. Both methods return only on
// failure.
type Executor interface {
	Run(target userdb.Identity, program string, args []string) error
	RunLoginShell(target userdb.Identity) error
}

type Engine struct {
	Policy   *policy.Policy
	Cache    CredentialCache
	Auth     Authenticator
	Switcher Switcher
	Executor Executor
}

// Request carries the resolved identities and the program to launch.
type Request struct {
	Invoker       userdb.Identity
	InvokerGroups []string
	Target        userdb.Identity
	CacheKey      string
	LoginShell    bool
	Program       string
	Args          []string
}

// Run drives the pipeline. On success it does not return: the process
// image has been replaced. Every return value is a failure, including
// a nil-error exec that somehow came back.
func (e *Engine) Run(req Request) error {
	if req.Invoker.UID == 0 {
		return ErrRootInvoker
	}

	decision := e.Policy.Evaluate(req.Invoker.Name, req.InvokerGroups, req.Target.Name)
	if !decision.Allowed {
		logger.Debug("no rule grants %s -> %s", req.Invoker.Name, req.Target.Name)
		return ErrNotAuthorized
	}

	if decision.Password {
		if e.Cache.IsValid(req.CacheKey, e.Policy.Timeout) {
			logger.Debug("credential cache valid for %s", req.CacheKey)
		} else {
			logger.Debug("credential cache stale for %s, challenging", req.CacheKey)
			if err := e.Auth.Challenge(req.Invoker.Name); err != nil {
				return err
			}
		}
	}

	if err := e.Switcher.Commit(req.Target); err != nil {
		// Never exec with a partially dropped privilege set.
		return err
	}

	logger.Debug("running as %s (uid %d)", req.Target.Name, req.Target.UID)
	if req.LoginShell {
		return e.Executor.RunLoginShell(req.Target)
	}
	return e.Executor.Run(req.Target, req.Program, req.Args)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/hnrobert/elev/internal/auth"
	"github.com/hnrobert/elev/internal/cache"
	"github.com/hnrobert/elev/internal/engine"
	"github.com/hnrobert/elev/internal/launch"
	"github.com/hnrobert/elev/internal/logger"
	"github.com/hnrobert/elev/internal/policy"
	"github.com/hnrobert/elev/internal/privs"
	"github.com/hnrobert/elev/internal/sysfs"
	"github.com/hnrobert/elev/internal/userdb"
)

const version = "0.2.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Real uid 0 is refused before anything else, flag parsing
	// included: there is nothing elev can do for root that root
	// cannot do alone, and the policy must never be evaluated for it.
	if os.Getuid() == 0 {
		fmt.Fprintln(os.Stderr, "elev: do not run 'elev' directly as root")
		return 1
	}
	if os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "elev: must be installed setuid root")
		return 1
	}

	flags := pflag.NewFlagSet("elev", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() { usage(flags) }
	targetName := flags.StringP("user", "u", "root", "target user to run the command as")
	loginShell := flags.BoolP("login", "i", false, "run the target user's login shell")
	resetAuth := flags.BoolP("reset-auth", "K", false, "invalidate cached credentials and exit")
	verbose := flags.BoolP("verbose", "v", false, "enable verbose logging")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "elev: %v\n", err)
		return 1
	}
	logger.SetVerbose(*verbose)

	if *showVersion {
		fmt.Printf("elev %s\n", version)
		return 0
	}

	command := flags.Args()
	if !*loginShell && !*resetAuth && len(command) == 0 {
		usage(flags)
		return 1
	}

	db := userdb.Open()
	invoker, err := db.ResolveUID(os.Getuid())
	if err != nil {
		fmt.Fprintf(os.Stderr, "elev: cannot identify invoking user: %v\n", err)
		return 1
	}

	store := cache.New(sysfs.CacheDir, 0)
	key := cache.Key(invoker.Name, cache.CurrentTTY())

	if *resetAuth {
		if err := store.Invalidate(key); err != nil {
			fmt.Fprintf(os.Stderr, "elev: %v\n", err)
			return 1
		}
		fmt.Println("elev: authentication cache cleared")
		return 0
	}

	if !userdb.ValidUsername(*targetName) {
		fmt.Fprintf(os.Stderr, "elev: invalid target user %q\n", *targetName)
		return 1
	}
	target, err := db.Resolve(*targetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elev: unknown target user %q\n", *targetName)
		return 1
	}
	groups, err := db.GroupNames(invoker.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elev: cannot resolve groups: %v\n", err)
		return 1
	}

	pol, err := policy.Load(sysfs.PolicyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elev: %v\n", err)
		return 1
	}

	authenticator := auth.NewAuthenticator(db)
	authenticator.RecordSuccess = func() error { return store.Record(key) }

	eng := &engine.Engine{
		Policy:   pol,
		Cache:    store,
		Auth:     authenticator,
		Switcher: privs.NewSwitcher(),
		Executor: launch.NewExecutor(),
	}

	req := engine.Request{
		Invoker:       invoker,
		InvokerGroups: groups,
		Target:        target,
		CacheKey:      key,
		LoginShell:    *loginShell,
	}
	if !*loginShell {
		req.Program = command[0]
		req.Args = command[1:]
	}

	program := req.Program
	if *loginShell {
		program = target.Shell
	}
	logger.Debug("invoked by %s to run %q as %s", invoker.Name, program, target.Name)

	// Run only returns on failure; success is a replaced process.
	err = eng.Run(req)
	report(err, program)
	return 1
}

// report prints the user-facing failure line. Authentication and
// authorization failures share one message so a probing caller cannot
// tell "wrong password" from "not permitted by policy"; the details
// are available at -v.
func report(err error, program string) {
	switch {
	case errors.Is(err, engine.ErrRootInvoker):
		fmt.Fprintln(os.Stderr, "elev: do not run 'elev' directly as root")
	case errors.Is(err, engine.ErrNotAuthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUserLocked):
		logger.Debug("denied: %v", err)
		fmt.Fprintln(os.Stderr, "elev: access denied")
	case errors.Is(err, launch.ErrCommandNotFound):
		fmt.Fprintf(os.Stderr, "elev: command not found: %s\n", program)
	case errors.Is(err, launch.ErrNotExecutable):
		fmt.Fprintf(os.Stderr, "elev: permission denied: %s\n", program)
	default:
		fmt.Fprintf(os.Stderr, "elev: %v\n", err)
	}
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: elev [-u USER] [-i] [-K] [-v] COMMAND [ARGS...]")
	fmt.Fprintln(os.Stderr, flags.FlagUsages())
}

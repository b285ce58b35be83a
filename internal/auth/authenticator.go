package auth

import (
	"errors"
	"fmt"

	"github.com/hnrobert/elev/internal/logger"
	"github.com/hnrobert/elev/internal/userdb"
)

// DefaultMaxAttempts bounds the retry loop. There is never an
// unbounded prompt.
const DefaultMaxAttempts = 3

// Authenticator runs the interactive password challenge for the
// invoker. Prompt and Verify are injectable so tests can script the
// exchange without a terminal or a shadow file.
type Authenticator struct {
	DB          *userdb.DB
	MaxAttempts int

	// RecordSuccess is called once after a successful check, before
	// Challenge returns. The engine points it at the credential cache.
	RecordSuccess func() error

	Prompt func(prompt string) (string, error)
	Verify func(db *userdb.DB, username, password string) error
}

func NewAuthenticator(db *userdb.DB) *Authenticator {
	return &Authenticator{
		DB:          db,
		MaxAttempts: DefaultMaxAttempts,
		Prompt:      promptPassword,
		Verify:      VerifyPassword,
	}
}

// Challenge prompts for username's own password, retrying on a wrong
// password up to MaxAttempts times. A locked account or a backend
// failure aborts immediately. On success the cache callback runs; a
// failure there is reported but does not revoke the grant, since the
// password was correct.
func (a *Authenticator) Challenge(username string) error {
	attempts := a.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 1; i <= attempts; i++ {
		password, err := a.Prompt(fmt.Sprintf("[elev] password for %s: ", username))
		if err != nil {
			return err
		}
		err = a.Verify(a.DB, username, password)
		if err == nil {
			if a.RecordSuccess != nil {
				if rerr := a.RecordSuccess(); rerr != nil {
					logger.Warn("could not record authentication: %v", rerr)
				}
			}
			return nil
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			return err
		}
		if i < attempts {
			logger.Warn("sorry, try again")
		}
	}
	return ErrInvalidCredentials
}

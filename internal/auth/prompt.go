package auth

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var ErrNoTerminal = errors.New("no controlling terminal for password prompt")

// promptPassword asks for a password on the controlling terminal with
// echo disabled. It opens /dev/tty directly so redirected stdin cannot
// feed the prompt.
func promptPassword(prompt string) (string, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return "", ErrNoTerminal
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprint(tty, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(tty)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

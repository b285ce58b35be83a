package auth

import (
	"errors"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"

	"github.com/hnrobert/elev/internal/userdb"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserLocked         = errors.New("user is locked")
	ErrUnsupportedHash    = errors.New("unsupported password hash")
)

// VerifyPassword checks password against the stored hash for username.
// Reading the shadow file requires the process to still hold root, so
// this always runs before any privilege drop.
func VerifyPassword(db *userdb.DB, username, password string) error {
	hash, err := db.ShadowHash(username)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if hash == "" || strings.HasPrefix(hash, "!") || strings.HasPrefix(hash, "*") {
		return ErrUserLocked
	}
	ok, err := verifyCrypt(hash, password)
	if err != nil {
		if errors.Is(err, ErrUnsupportedHash) {
			ok2, err2 := verifyWithSu(username, password)
			if err2 != nil {
				return err2
			}
			if !ok2 {
				return ErrInvalidCredentials
			}
			return nil
		}
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}

func verifyCrypt(hash, password string) (bool, error) {
	// Support common crypt formats:
	// $1$ (md5-crypt), $5$ (sha256-crypt), $6$ (sha512-crypt).
	// Note: this does NOT support newer formats like yescrypt.
	var crypters []crypt.Crypter
	crypters = append(crypters, sha512_crypt.New())
	crypters = append(crypters, sha256_crypt.New())
	crypters = append(crypters, md5_crypt.New())

	// Try known crypters. Verify returns nil on success.
	for _, c := range crypters {
		if err := c.Verify(hash, []byte(password)); err == nil {
			return true, nil
		}
	}

	// Detect an obviously unsupported hash prefix.
	// Ubuntu commonly uses yescrypt ($y$).
	if strings.HasPrefix(hash, "$y$") || strings.HasPrefix(hash, "$7$") || strings.HasPrefix(hash, "$2") {
		return false, ErrUnsupportedHash
	}
	return false, nil
}

// Package keyring keeps the PostgreSQL connection string in the OS keyring
// so it never has to appear on the command line or in the environment.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitsnap/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry is one secret in the OS keyring.
type Entry struct {
	Service string
	User    string
}

var connection = Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}

func translate(err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
}

func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.User)
	if err != nil {
		return "", translate(err)
	}
	return secret, nil
}

func (e Entry) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(e.Service, e.User, secret); err != nil {
		return translate(err)
	}
	return nil
}

func (e Entry) Delete() error {
	if err := keyring.Delete(e.Service, e.User); err != nil {
		return translate(err)
	}
	return nil
}

func GetConnectionString() (string, error) { return connection.Get() }

func SetConnectionString(connStr string) error { return connection.Set(connStr) }

func DeleteConnectionString() error { return connection.Delete() }

// IsAvailable probes the keyring with a read of an entry that never
// exists. ErrNotFound still means the keyring answered.
func IsAvailable() bool {
	_, err := Entry{Service: constants.AppName, User: "test-availability"}.Get()
	return err == nil || errors.Is(err, ErrNotFound)
}

// Resolve is GetConnectionString with a hint when nothing is stored, for
// --config keyring.
func Resolve() (string, error) {
	connStr, err := GetConnectionString()
	if errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("%w; run `%s keyring set` first", err, constants.AppName)
	}
	return connStr, err
}

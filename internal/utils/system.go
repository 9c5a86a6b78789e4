package utils

import (
	"errors"
	"os"
	"os/user"
)

// GetUsername returns the current username. Statically linked builds in
// minimal containers may not resolve the uid, so $USER and $USERNAME are
// tried before giving up.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return u.Username, nil
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name, nil
		}
	}
	if err == nil {
		err = errors.New("current user has no name")
	}
	return "", err
}

// GetHostname returns the system hostname, recorded in audit entries.
func GetHostname() (string, error) {
	return os.Hostname()
}

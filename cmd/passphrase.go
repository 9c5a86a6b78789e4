package cmd

import (
	"bytes"
	"io"
	"os"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/utils"
)

var (
	passphraseStdin bool

	// passphraseInput feeds --passphrase-stdin. Tests replace it.
	passphraseInput io.Reader = os.Stdin
	stdinReader     *utils.PassphraseReader
)

// readPassphrase reads one passphrase from stdin with --passphrase-stdin,
// otherwise prompts on the terminal without echo.
func readPassphrase(prompt string) ([]byte, error) {
	if passphraseStdin {
		if stdinReader == nil {
			stdinReader = utils.NewPassphraseReader(passphraseInput)
		}
		return stdinReader.Next()
	}
	if utils.IsTerminal() {
		return utils.ReadPassphrase(prompt)
	}
	// stdin carries data (e.g. a message to sign); ask on the terminal.
	return utils.ReadPassphraseFromTTY(prompt)
}

// readNewPassphrase asks twice on a terminal. From stdin a single line is
// taken as given.
func readNewPassphrase(prompt string) ([]byte, error) {
	first, err := readPassphrase(prompt)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, kerrors.ErrEmptyPassphrase
	}
	if passphraseStdin {
		return first, nil
	}
	second, err := readPassphrase("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	defer clear(second)
	if !bytes.Equal(first, second) {
		clear(first)
		return nil, kerrors.ErrPassphraseMismatch
	}
	return first, nil
}

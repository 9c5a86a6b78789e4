package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is empty, is a terminal (no piped data), or cannot be read.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the message to this command)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

// PassphraseReader hands out newline-separated passphrases from a stream,
// so one pipe can feed several prompts (old and new passphrase for passwd).
type PassphraseReader struct {
	r *bufio.Reader
}

// NewPassphraseReader wraps r.
func NewPassphraseReader(r io.Reader) *PassphraseReader {
	return &PassphraseReader{r: bufio.NewReader(r)}
}

// Next returns the next line without its line ending.
// An empty line is returned as is; callers decide whether that is acceptable.
func (p *PassphraseReader) Next() ([]byte, error) {
	line, err := p.r.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		if err == io.EOF {
			return nil, fmt.Errorf("no passphrase provided on stdin")
		}
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, nil
}

package secrets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
)

// SealedExt is appended to a file's name when it is encrypted.
const SealedExt = ".lumen"

// DefaultIgnoreDirs are skipped when searching a directory tree.
var DefaultIgnoreDirs = []string{".git", "node_modules", "vendor"}

// Cipher seals and opens payloads. *Manager implements it.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// ResolveFiles takes user-provided paths/globs and returns matching files.
// If patterns is empty, returns nil (caller should use FindSecretFiles).
// forEncryption=true finds .env* files, forEncryption=false finds *.lumen files.
func ResolveFiles(patterns []string, root string, forEncryption bool) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, root, forEncryption)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no matching files found")
	}
	return files, nil
}

func resolvePattern(pattern, root string, forEncryption bool) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(root, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return FindSecretFiles(absPattern, DefaultIgnoreDirs, !forEncryption)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		var filtered []string
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || !info.Mode().IsRegular() {
				continue
			}
			if inIgnoredDir(m) {
				continue
			}
			if wanted(m, !forEncryption) {
				filtered = append(filtered, m)
			}
		}
		return filtered, nil
	}

	if _, err := os.Stat(absPattern); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", pattern)
	}
	if forEncryption && !isEnvFile(absPattern) {
		return nil, fmt.Errorf("file is not a .env file: %s", pattern)
	}
	if !forEncryption && !isSealedFile(absPattern) {
		return nil, fmt.Errorf("file is not a %s file: %s", SealedExt, pattern)
	}
	return []string{absPattern}, nil
}

// FindSecretFiles walks root for .env files (sealed=false) or their sealed
// counterparts (sealed=true), skipping ignoreDirs.
func FindSecretFiles(root string, ignoreDirs []string, sealed bool) ([]string, error) {
	ignore := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignore[d] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed while walking directory: %w", err)
		}
		if d.IsDir() {
			if path != root && ignore[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && wanted(path, sealed) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func inIgnoredDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		for _, d := range DefaultIgnoreDirs {
			if part == d {
				return true
			}
		}
	}
	return false
}

func wanted(path string, sealed bool) bool {
	if sealed {
		return isSealedFile(path)
	}
	return isEnvFile(path)
}

func isEnvFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && !strings.HasSuffix(base, SealedExt)
}

func isSealedFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && strings.HasSuffix(base, SealedExt)
}

// EncryptFiles seals each file to <path>.lumen and returns the written paths.
func EncryptFiles(c Cipher, paths []string) ([]string, error) {
	var written []string
	for _, in := range paths {
		plaintext, err := os.ReadFile(in)
		if err != nil {
			return written, fmt.Errorf("failed to read %s: %w", in, err)
		}
		ciphertext, err := c.Encrypt(plaintext)
		wipe(plaintext)
		if err != nil {
			return written, fmt.Errorf("failed to encrypt %s: %w", in, err)
		}

		out := in + SealedExt
		if err := os.WriteFile(out, ciphertext, 0600); err != nil {
			return written, fmt.Errorf("failed to write to %s: %w", out, err)
		}
		written = append(written, out)
	}
	return written, nil
}

// DecryptFiles opens each .lumen file back to its original name.
func DecryptFiles(c Cipher, paths []string) ([]string, error) {
	var written []string
	for _, in := range paths {
		ciphertext, err := os.ReadFile(in)
		if err != nil {
			return written, fmt.Errorf("failed to read %s: %w", in, err)
		}
		plaintext, err := c.Decrypt(ciphertext)
		if err != nil {
			return written, fmt.Errorf("failed to decrypt %s: %w", in, err)
		}

		out := strings.TrimSuffix(in, SealedExt)
		// #nosec G306 -- decrypted .env files stay editable by the user
		err = os.WriteFile(out, plaintext, 0644)
		wipe(plaintext)
		if err != nil {
			return written, fmt.Errorf("failed to write to %s: %w", out, err)
		}
		written = append(written, out)
	}
	return written, nil
}

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(color.YellowString(path))
		b.WriteString("\n")
	}
	return b.String()
}

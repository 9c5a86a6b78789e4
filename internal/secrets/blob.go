package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

const (
	RecordVersion = 1
	KDFName       = "pbkdf2-sha256"

	SaltSize = 16
	IVSize   = 12
	keySize  = 32

	// MaxIterations bounds the work a tampered record can demand.
	MaxIterations = 10_000_000
)

// ByteArray marshals as a JSON array of numbers instead of base64, matching
// records written by the browser wallet.
type ByteArray []byte

func (b ByteArray) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte value %d out of range at index %d", v, i)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// Record is the persisted encrypted blob for one wallet key.
type Record struct {
	Version    int       `json:"version"`
	KDF        string    `json:"kdf"`
	Iterations int       `json:"iterations"`
	KeyID      string    `json:"keyId"`
	PublicKey  string    `json:"publicKey"`
	Ciphertext ByteArray `json:"ciphertext"`
	Salt       ByteArray `json:"salt"`
	IV         ByteArray `json:"iv"`
}

// ParseRecord decodes and sanity-checks a stored record. Anything that cannot
// be a record this package wrote is reported as ErrCorruptBlob.
func ParseRecord(data []byte) (*Record, error) {
	r := &Record{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrCorruptBlob, err)
	}

	switch {
	case r.Version != RecordVersion:
		return nil, fmt.Errorf("%w: unsupported version %d", kerrors.ErrCorruptBlob, r.Version)
	case r.KDF != KDFName:
		return nil, fmt.Errorf("%w: unsupported kdf %q", kerrors.ErrCorruptBlob, r.KDF)
	case r.Iterations < 1 || r.Iterations > MaxIterations:
		return nil, fmt.Errorf("%w: iteration count %d", kerrors.ErrCorruptBlob, r.Iterations)
	case len(r.Salt) != SaltSize:
		return nil, fmt.Errorf("%w: salt is %d bytes", kerrors.ErrCorruptBlob, len(r.Salt))
	case len(r.IV) != IVSize:
		return nil, fmt.Errorf("%w: iv is %d bytes", kerrors.ErrCorruptBlob, len(r.IV))
	case len(r.Ciphertext) < 16:
		return nil, fmt.Errorf("%w: ciphertext too short", kerrors.ErrCorruptBlob)
	case r.KeyID == "":
		return nil, fmt.Errorf("%w: missing keyId", kerrors.ErrCorruptBlob)
	}
	return r, nil
}

// Marshal encodes the record for the key store.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// EncryptBlob seals secret under a key derived from passphrase with a fresh
// salt and IV. keyID is bound as additional data so a blob cannot be swapped
// onto another identity.
func EncryptBlob(secret, passphrase []byte, iterations int, keyID, publicKey string) (*Record, error) {
	if len(passphrase) == 0 {
		return nil, kerrors.ErrEmptyPassphrase
	}
	if iterations < 1 || iterations > MaxIterations {
		return nil, fmt.Errorf("iteration count %d out of range", iterations)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	gcm, err := newGCM(passphrase, salt, iterations)
	if err != nil {
		return nil, err
	}

	return &Record{
		Version:    RecordVersion,
		KDF:        KDFName,
		Iterations: iterations,
		KeyID:      keyID,
		PublicKey:  publicKey,
		Ciphertext: gcm.Seal(nil, iv, secret, []byte(keyID)),
		Salt:       salt,
		IV:         iv,
	}, nil
}

// DecryptBlob opens a record. A wrong passphrase and a tampered ciphertext are
// indistinguishable to GCM; both report ErrWrongPassphrase.
func DecryptBlob(r *Record, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, kerrors.ErrEmptyPassphrase
	}

	gcm, err := newGCM(passphrase, r.Salt, r.Iterations)
	if err != nil {
		return nil, err
	}

	secret, err := gcm.Open(nil, r.IV, r.Ciphertext, []byte(r.KeyID))
	if err != nil {
		return nil, kerrors.ErrWrongPassphrase
	}
	return secret, nil
}

func newGCM(passphrase, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key(passphrase, salt, iterations, keySize, sha256.New)
	defer wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return gcm, nil
}

func wipe(b []byte) {
	clear(b)
}

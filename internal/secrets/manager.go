package secrets

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/keystore"
)

// State is the lifecycle state of the wallet key.
type State int

const (
	Locked State = iota
	Unlocking
	Unlocked
	Rotating
)

func (s State) String() string {
	switch s {
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	case Rotating:
		return "rotating"
	default:
		return "locked"
	}
}

const (
	DefaultRecord     = "lumen-wallet"
	DefaultIterations = 100000

	nonceSize   = 24
	payloadInfo = "lumen payload key v1"
)

// Options configures a Manager.
type Options struct {
	// Record is the key store name of the wallet blob.
	Record string
	// Iterations is the PBKDF2 cost for newly written blobs.
	Iterations int
	// IdleTimeout locks the wallet after this long without use. Zero disables it.
	IdleTimeout time.Duration
}

// Identity is the public half of a wallet key.
type Identity struct {
	KeyID     string `json:"keyId"`
	PublicKey string `json:"publicKey"`
}

// Status is a snapshot of the manager.
type Status struct {
	State     State
	KeyID     string
	PublicKey string
}

// Manager owns the decrypted wallet key. Key material only exists while the
// state is Unlocked (or Rotating) and is wiped synchronously on Lock.
type Manager struct {
	store keystore.Store
	opts  Options

	mu         sync.Mutex
	state      State
	creating   bool
	epoch      uint64 // bumped whenever held material is replaced or dropped
	uses       uint64
	identity   Identity
	seed       []byte
	payloadKey *[32]byte
	passphrase []byte
	idle       *time.Timer
}

func NewManager(store keystore.Store, opts Options) *Manager {
	if opts.Record == "" {
		opts.Record = DefaultRecord
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	return &Manager{store: store, opts: opts}
}

// Exists reports whether a wallet record is present.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	_, err := m.store.Get(ctx, m.opts.Record)
	if errors.Is(err, kerrors.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Identify loads the wallet's public identity without unlocking it.
func (m *Manager) Identify(ctx context.Context) (Identity, error) {
	r, err := m.load(ctx)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{KeyID: r.KeyID, PublicKey: r.PublicKey}

	m.mu.Lock()
	if m.state == Locked {
		m.identity = id
	}
	m.mu.Unlock()
	return id, nil
}

// Create generates a new wallet key, stores it sealed under passphrase and
// leaves the manager Unlocked with it. Create shares the Unlocking state with
// Unlock, so a second Create or an Unlock issued meanwhile gets
// ErrUnlockInProgress. If Lock runs before the record is written, the wallet
// is still created but the manager stays Locked.
func (m *Manager) Create(ctx context.Context, passphrase []byte) (Identity, error) {
	if len(passphrase) == 0 {
		return Identity{}, kerrors.ErrEmptyPassphrase
	}

	m.mu.Lock()
	if m.creating || m.state == Unlocking || m.state == Rotating {
		m.mu.Unlock()
		return Identity{}, kerrors.ErrUnlockInProgress
	}
	m.creating = true
	prev := m.state
	m.state = Unlocking
	epoch := m.epoch
	m.mu.Unlock()

	seed, id, err := m.create(ctx, passphrase)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.creating = false

	if err != nil {
		if m.epoch == epoch {
			m.state = prev
		}
		return Identity{}, err
	}
	if m.epoch != epoch {
		wipe(seed)
		m.identity = id
		return id, nil
	}
	m.dropLocked()
	m.install(seed, passphrase, id)
	return id, nil
}

func (m *Manager) create(ctx context.Context, passphrase []byte) ([]byte, Identity, error) {
	exists, err := m.Exists(ctx)
	if err != nil {
		return nil, Identity{}, err
	}
	if exists {
		return nil, Identity{}, kerrors.ErrWalletExists
	}

	seed, id, err := newKey()
	if err != nil {
		return nil, Identity{}, err
	}
	if err := m.persist(ctx, seed, passphrase, id); err != nil {
		wipe(seed)
		return nil, Identity{}, err
	}
	return seed, id, nil
}

// Unlock decrypts the stored key with passphrase. On any failure the manager
// stays Locked and keeps nothing. Only one unlock may run at a time; a Lock
// issued while it runs wins and the unlock reports ErrUnlockInterrupted.
//
// Unlocking an already unlocked wallet re-checks the passphrase without
// touching the held key.
func (m *Manager) Unlock(ctx context.Context, passphrase []byte) error {
	if len(passphrase) == 0 {
		return kerrors.ErrEmptyPassphrase
	}

	m.mu.Lock()
	if m.creating || m.state == Unlocking || m.state == Rotating {
		m.mu.Unlock()
		return kerrors.ErrUnlockInProgress
	}
	verifyOnly := m.state == Unlocked
	if !verifyOnly {
		m.state = Unlocking
	}
	epoch := m.epoch
	m.mu.Unlock()

	seed, r, err := m.open(ctx, passphrase)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		wipe(seed)
		return kerrors.ErrUnlockInterrupted
	}
	if err != nil {
		if !verifyOnly {
			m.state = Locked
		}
		return err
	}
	if verifyOnly {
		wipe(seed)
		m.touch()
		return nil
	}

	m.install(seed, passphrase, Identity{KeyID: r.KeyID, PublicKey: r.PublicKey})
	return nil
}

// Lock wipes key material and returns to Locked. It is always safe to call.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked()
}

// Encrypt seals plaintext with the wallet's payload key. The output is a
// random 24-byte nonce followed by the secretbox ciphertext.
func (m *Manager) Encrypt(plaintext []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unlocked {
		return nil, kerrors.ErrKeyUnavailable
	}
	m.touch()

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, m.payloadKey), nil
}

// Decrypt opens a ciphertext produced by Encrypt under the same key.
func (m *Manager) Decrypt(ciphertext []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unlocked {
		return nil, kerrors.ErrKeyUnavailable
	}
	m.touch()

	if len(ciphertext) < nonceSize+secretbox.Overhead {
		return nil, kerrors.ErrInvalidCiphertext
	}
	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, m.payloadKey)
	if !ok {
		return nil, kerrors.ErrInvalidCiphertext
	}
	return plaintext, nil
}

// Sign signs msg with the wallet's Ed25519 key.
func (m *Manager) Sign(msg []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unlocked {
		return nil, kerrors.ErrKeyUnavailable
	}
	m.touch()

	priv := ed25519.NewKeyFromSeed(m.seed)
	defer wipe(priv)
	return ed25519.Sign(priv, msg), nil
}

// Verify checks sig against a base58 public key as reported by Identify.
func Verify(publicKey string, msg, sig []byte) (bool, error) {
	pub, err := base58.Decode(publicKey)
	if err != nil {
		return false, fmt.Errorf("invalid public key: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid public key: %d bytes", len(pub))
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig), nil
}

// Rotate replaces the wallet key with a new one under the same passphrase.
// The new record is persisted before the old key is dropped, so a storage
// failure leaves the old key in place. Data sealed with Encrypt before the
// rotation cannot be opened afterwards.
func (m *Manager) Rotate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unlocked {
		return "", kerrors.ErrKeyUnavailable
	}

	m.state = Rotating
	seed, id, err := newKey()
	if err != nil {
		m.state = Unlocked
		return "", err
	}
	if err := m.persist(ctx, seed, m.passphrase, id); err != nil {
		wipe(seed)
		m.state = Unlocked
		return "", err
	}

	passphrase := append([]byte(nil), m.passphrase...)
	m.dropLocked()
	m.install(seed, passphrase, id)
	wipe(passphrase)
	return id.KeyID, nil
}

// ChangePassphrase re-seals the current key under a new passphrase.
func (m *Manager) ChangePassphrase(ctx context.Context, oldPassphrase, newPassphrase []byte) error {
	if len(newPassphrase) == 0 {
		return kerrors.ErrEmptyPassphrase
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unlocked {
		return kerrors.ErrKeyUnavailable
	}
	if subtle.ConstantTimeCompare(oldPassphrase, m.passphrase) != 1 {
		return kerrors.ErrWrongPassphrase
	}

	if err := m.persist(ctx, m.seed, newPassphrase, m.identity); err != nil {
		return err
	}
	wipe(m.passphrase)
	m.passphrase = append([]byte(nil), newPassphrase...)
	m.touch()
	return nil
}

// Status returns the current state and identity.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, KeyID: m.identity.KeyID, PublicKey: m.identity.PublicKey}
}

func (m *Manager) load(ctx context.Context) (*Record, error) {
	data, err := m.store.Get(ctx, m.opts.Record)
	if errors.Is(err, kerrors.ErrRecordNotFound) {
		return nil, kerrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return ParseRecord(data)
}

func (m *Manager) open(ctx context.Context, passphrase []byte) ([]byte, *Record, error) {
	r, err := m.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	seed, err := DecryptBlob(r, passphrase)
	if err != nil {
		return nil, nil, err
	}
	if len(seed) != ed25519.SeedSize {
		wipe(seed)
		return nil, nil, fmt.Errorf("%w: key is %d bytes", kerrors.ErrCorruptBlob, len(seed))
	}
	return seed, r, nil
}

func (m *Manager) persist(ctx context.Context, seed, passphrase []byte, id Identity) error {
	r, err := EncryptBlob(seed, passphrase, m.opts.Iterations, id.KeyID, id.PublicKey)
	if err != nil {
		return err
	}
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.store.Put(ctx, m.opts.Record, data)
}

// install takes ownership of seed. Caller holds m.mu.
func (m *Manager) install(seed, passphrase []byte, id Identity) {
	m.seed = seed
	m.payloadKey = derivePayloadKey(seed)
	m.passphrase = append([]byte(nil), passphrase...)
	m.identity = id
	m.state = Unlocked
	m.epoch++
	m.touch()
}

// dropLocked wipes everything secret. Caller holds m.mu.
func (m *Manager) dropLocked() {
	wipe(m.seed)
	wipe(m.passphrase)
	if m.payloadKey != nil {
		clear(m.payloadKey[:])
	}
	m.seed = nil
	m.passphrase = nil
	m.payloadKey = nil
	m.state = Locked
	m.epoch++
	if m.idle != nil {
		m.idle.Stop()
		m.idle = nil
	}
}

// touch restarts the idle timer. Caller holds m.mu.
func (m *Manager) touch() {
	if m.opts.IdleTimeout <= 0 {
		return
	}
	m.uses++
	uses := m.uses
	if m.idle != nil {
		m.idle.Stop()
	}
	m.idle = time.AfterFunc(m.opts.IdleTimeout, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.uses == uses && m.state == Unlocked {
			m.dropLocked()
		}
	})
}

func newKey() ([]byte, Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, Identity{}, fmt.Errorf("failed to generate wallet key: %w", err)
	}
	seed := append([]byte(nil), priv.Seed()...)
	wipe(priv)

	return seed, Identity{
		KeyID:     uuid.NewString(),
		PublicKey: base58.Encode(pub),
	}, nil
}

func derivePayloadKey(seed []byte) *[32]byte {
	var key [32]byte
	r := hkdf.New(sha256.New, seed, nil, []byte(payloadInfo))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		// hkdf only fails past 255*32 bytes of output.
		panic(err)
	}
	return &key
}

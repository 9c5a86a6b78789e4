// Package secrets owns the wallet's private key and its encrypted record.
//
// # Lifecycle
//
// A Manager starts Locked. Unlock reads the wallet record from a
// keystore.Store, derives an AES-256 key from the passphrase with
// PBKDF2-SHA256 and opens the record with AES-GCM. On success the Ed25519
// seed is held in memory and the manager is Unlocked; on any failure it
// stays Locked and keeps nothing.
//
//	Locked -> Unlocking -> Unlocked -> Locked
//	                       Unlocked -> Rotating -> Unlocked
//
// Lock wipes the seed, the derived payload key and the cached passphrase
// before it returns. Only one Unlock may be in flight; a second one gets
// ErrUnlockInProgress, and a Lock that lands mid-unlock makes the unlock
// return ErrUnlockInterrupted.
//
// # Record format
//
// Records are JSON with byte fields written as arrays of numbers:
//
//	{"version":1,"kdf":"pbkdf2-sha256","iterations":100000,
//	 "keyId":"...","publicKey":"...","ciphertext":[...],"salt":[...],"iv":[...]}
//
// The salt is 16 bytes and the IV 12. Both are fresh for every record
// written, including rotation and passphrase changes. The keyId is
// authenticated as GCM additional data.
//
// # Payload encryption
//
// Encrypt and Decrypt use NaCl secretbox with a key derived from the seed
// through HKDF-SHA256. A random 24-byte nonce is prepended to the
// ciphertext, so encrypting the same input twice gives different output.
// Rotation replaces the seed, so payloads sealed before a rotation no longer
// open.
//
// # Files
//
// EncryptFiles and DecryptFiles seal .env files to .env.lumen and back.
// ResolveFiles accepts paths, directories and doublestar globs.
package secrets

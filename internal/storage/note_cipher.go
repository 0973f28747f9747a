package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	sealedPrefix     = "v1:"
	noteSaltSize     = 16
	noteKeyIter      = 60000
	defaultNoteKey   = "clockwork2025"
	legacyNoteXORKey = "clockwork2025"
)

// ErrUnreadableNote indicates a stored note that cannot be opened.
var ErrUnreadableNote = errors.New("secret note unreadable")

// NoteCipher seals the secret note with AES-GCM under a PBKDF2-derived key.
type NoteCipher struct {
	passphrase []byte
}

// NewNoteCipher creates a cipher. An empty passphrase uses the built-in key.
func NewNoteCipher(passphrase string) *NoteCipher {
	if passphrase == "" {
		passphrase = defaultNoteKey
	}
	return &NoteCipher{passphrase: []byte(passphrase)}
}

// Seal encrypts a note. Blank notes seal to "".
func (noteCipher *NoteCipher) Seal(note string) (string, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return "", nil
	}
	salt := make([]byte, noteSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	gcm, err := noteCipher.gcm(salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	payload := append(append(salt, nonce...), gcm.Seal(nil, nonce, []byte(note), nil)...)
	return sealedPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// Open decrypts a sealed note. Notes written by older releases with the
// XOR scheme are still readable.
func (noteCipher *NoteCipher) Open(sealed string) (string, error) {
	sealed = strings.TrimSpace(sealed)
	if sealed == "" {
		return "", nil
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return openLegacyNote(sealed)
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableNote, err)
	}
	if len(payload) < noteSaltSize {
		return "", ErrUnreadableNote
	}
	salt := payload[:noteSaltSize]
	gcm, err := noteCipher.gcm(salt)
	if err != nil {
		return "", err
	}
	rest := payload[noteSaltSize:]
	if len(rest) < gcm.NonceSize() {
		return "", ErrUnreadableNote
	}
	plain, err := gcm.Open(nil, rest[:gcm.NonceSize()], rest[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableNote, err)
	}
	return string(plain), nil
}

func (noteCipher *NoteCipher) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(noteCipher.passphrase, salt, noteKeyIter, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// openLegacyNote reverses base64 over a repeating-key XOR of Latin-1 text.
func openLegacyNote(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableNote, err)
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b ^ legacyNoteXORKey[i%len(legacyNoteXORKey)])
	}
	return string(runes), nil
}

package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/tonhold/tonhold/internal/crypto"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// TON mnemonic-to-seed parameters. The salt strings and iteration count
// are fixed by the TON mnemonic scheme and must not change.
const (
	pbkdf2Iterations = 100000
	seedSalt         = "TON default seed"
	versionSalt      = "TON seed version"
)

// KeyPair holds a derived ed25519 signing key pair. The secret key must
// be destroyed with Destroy after use.
type KeyPair struct {
	PublicKey ed25519.PublicKey
	secret    *crypto.SecureBytes
}

// SecretKey returns the ed25519 private key. Returns nil after Destroy.
func (kp *KeyPair) SecretKey() ed25519.PrivateKey {
	if kp.secret == nil {
		return nil
	}
	b := kp.secret.Bytes()
	if b == nil {
		return nil
	}
	return ed25519.PrivateKey(b)
}

// Destroy zeros the secret key material.
func (kp *KeyPair) Destroy() {
	if kp.secret != nil {
		kp.secret.Destroy()
	}
}

// mnemonicToEntropy derives the HMAC-SHA512 entropy for a TON mnemonic.
func mnemonicToEntropy(normalized string) []byte {
	mac := hmac.New(sha512.New, []byte(normalized))
	mac.Write([]byte(""))
	return mac.Sum(nil)
}

// isBasicSeed reports whether the entropy passes the TON seed-version
// check. A mnemonic that fails this check was not generated for a TON
// wallet (or is corrupted) even if every word is valid.
func isBasicSeed(entropy []byte) bool {
	iterations := pbkdf2Iterations / 256
	if iterations < 1 {
		iterations = 1
	}
	probe := pbkdf2.Key(entropy, []byte(versionSalt), iterations, 64, sha512.New)
	ok := probe[0] == 0
	crypto.ZeroBytes(probe)
	return ok
}

// MnemonicToKeyPair derives the ed25519 signing key pair from a TON
// mnemonic phrase. It validates word structure and the seed-version
// byte before deriving; both failures surface as ErrInvalidMnemonic.
// All intermediate secret material is zeroed before returning.
func MnemonicToKeyPair(mnemonic string) (*KeyPair, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	normalized := NormalizeMnemonicInput(mnemonic)
	entropy := mnemonicToEntropy(normalized)
	defer crypto.ZeroBytes(entropy)

	if !isBasicSeed(entropy) {
		return nil, walleterr.ErrInvalidMnemonic
	}

	seed := pbkdf2.Key(entropy, []byte(seedSalt), pbkdf2Iterations, 64, sha512.New)
	defer crypto.ZeroBytes(seed)

	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	secret, err := crypto.SecureBytesFromSlice(priv)
	if err != nil {
		crypto.ZeroBytes(priv)
		return nil, err
	}
	crypto.ZeroBytes(priv)

	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, ed25519.PrivateKey(secret.Bytes()).Public().(ed25519.PublicKey))

	return &KeyPair{PublicKey: pub, secret: secret}, nil
}

// MnemonicWords splits a normalized mnemonic into its words.
func MnemonicWords(mnemonic string) []string {
	return strings.Fields(NormalizeMnemonicInput(mnemonic))
}

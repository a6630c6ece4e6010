package wallet

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/tonhold/tonhold/internal/crypto"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// maxGenerateAttempts bounds the rejection-sampling loop. The
// seed-version check accepts roughly 1 in 256 candidates, so this limit
// is never reached in practice.
const maxGenerateAttempts = 65536

// GenerateMnemonic creates a new 24-word TON mnemonic. Candidates are
// drawn uniformly from the BIP39 word list and rejected until one
// passes the seed-version check, so every returned phrase derives a
// valid signing key.
func GenerateMnemonic() (string, error) {
	wordList := bip39.GetWordList()
	listLen := big.NewInt(int64(len(wordList)))

	words := make([]string, MnemonicWordCount)
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		for i := range words {
			n, err := rand.Int(rand.Reader, listLen)
			if err != nil {
				return "", walleterr.Wrap(err, "reading randomness")
			}
			words[i] = wordList[n.Int64()]
		}

		phrase := strings.Join(words, " ")
		entropy := mnemonicToEntropy(phrase)
		ok := isBasicSeed(entropy)
		crypto.ZeroBytes(entropy)

		if ok {
			return phrase, nil
		}
	}

	return "", walleterr.New("GENERATION_FAILED", "could not generate a valid mnemonic")
}

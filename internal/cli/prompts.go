package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/tonhold/tonhold/internal/crypto"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptNewPassword prompts for a new password with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPassword("Enter encryption password: ")
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		crypto.ZeroBytes(password)
		return nil, walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"password must be at least 8 characters",
		)
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		crypto.ZeroBytes(password)
		return nil, err
	}
	defer crypto.ZeroBytes(confirm)

	if string(password) != string(confirm) {
		crypto.ZeroBytes(password)
		return nil, walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"passwords do not match",
		)
	}

	return password, nil
}

// promptMnemonic reads a mnemonic phrase from stdin. Multi-line input
// is accepted; an empty line terminates it.
func promptMnemonic() (string, error) {
	fmt.Fprintln(os.Stderr, "Enter your 24-word mnemonic phrase (empty line to finish):")

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return strings.Join(lines, " "), nil
}

// termSecretService satisfies the signing coordinator's password
// challenge with an interactive terminal prompt. An empty entry counts
// as a cancelled challenge.
type termSecretService struct{}

func (termSecretService) RequestPassword(_ context.Context) (string, error) {
	password, err := promptPassword("Wallet password: ")
	if err != nil {
		return "", walleterr.Wrap(walleterr.ErrPasswordDenied, "reading password")
	}
	defer crypto.ZeroBytes(password)

	if len(password) == 0 {
		return "", walleterr.ErrPasswordDenied
	}
	return string(password), nil
}

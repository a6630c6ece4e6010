package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

func TestNormalizeMnemonicInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "abandon ability able", "abandon ability able"},
		{"uppercase", "ABANDON Ability aBLe", "abandon ability able"},
		{"extra whitespace", "  abandon \t ability\n\nable  ", "abandon ability able"},
		{"commas", "abandon,ability,able", "abandon ability able"},
		{"numbered list", "1. abandon\n2) ability\n3: able", "abandon ability able"},
		{"bullet list", "- abandon\n* ability\n• able", "abandon ability able"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeMnemonicInput(tt.input))
		})
	}
}

func TestValidateMnemonic(t *testing.T) {
	t.Parallel()

	valid24 := strings.TrimSpace(strings.Repeat("abandon ", 24))

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid words and count", valid24, false},
		{"empty", "", true},
		{"too few words", "abandon ability able", true},
		{"too many words", valid24 + " abandon", true},
		{"unknown word", strings.Replace(valid24, "abandon", "abandonn", 1), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateMnemonic(tt.input)
			if tt.wantErr {
				assert.True(t, walleterr.Is(err, walleterr.ErrInvalidMnemonic))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidWord(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidWord("abandon"))
	assert.True(t, IsValidWord("ZOO"))
	assert.False(t, IsValidWord("abandonn"))
	assert.False(t, IsValidWord(""))
}

func TestSuggestWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact match", "abandon", "abandon"},
		{"single typo", "abandom", "abandon"},
		{"transposition", "abandno", "abandon"},
		{"too different", "xqzzkwv", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SuggestWord(tt.input))
		})
	}
}

func TestDetectTypos(t *testing.T) {
	t.Parallel()

	t.Run("clean phrase has none", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, DetectTypos("abandon ability able"))
	})

	t.Run("reports position and suggestion", func(t *testing.T) {
		t.Parallel()
		typos := DetectTypos("abandon abilety able")
		require.Len(t, typos, 1)
		assert.Equal(t, 1, typos[0].Index)
		assert.Equal(t, "abilety", typos[0].Word)
		assert.Equal(t, "ability", typos[0].Suggestion)
		assert.LessOrEqual(t, typos[0].Distance, MaxTypoDistance)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, DetectTypos(""))
	})
}

func TestMnemonicWords(t *testing.T) {
	t.Parallel()

	words := MnemonicWords("1. abandon\n2. ability")
	assert.Equal(t, []string{"abandon", "ability"}, words)
}

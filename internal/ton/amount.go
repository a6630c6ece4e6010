package ton

import (
	"math/big"
	"strings"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Decimals is the number of decimal places in a nanoton amount. Jetton
// amounts in this codebase use the same scale.
const Decimals = 9

// ToNano parses a decimal coin amount string into nanotons.
// For example, "1.5" returns 1500000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ToNano(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, walleterr.ErrInvalidAmount
	}

	// Check for negative amounts
	if strings.HasPrefix(amount, "-") {
		return nil, walleterr.ErrInvalidAmount
	}

	// Split by decimal point
	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, walleterr.ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, walleterr.ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, walleterr.ErrInvalidAmount
			}
		}

		// Pad or truncate the fractional part to nanoton precision
		for len(decPart) < Decimals {
			decPart += "0"
		}
		decPart = decPart[:Decimals]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, walleterr.ErrInvalidAmount
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// FormatNano converts nanotons to a human-readable decimal string.
// Trailing zeros after the decimal point are removed.
func FormatNano(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	for len(str) <= Decimals {
		str = "0" + str
	}

	decimalPos := len(str) - Decimals
	result := str[:decimalPos] + "." + str[decimalPos:]

	result = strings.TrimRight(result, "0")
	result = strings.TrimSuffix(result, ".")
	return result
}

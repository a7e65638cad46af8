package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// joinCodeAlphabet avoids lookalike characters (no I, O, 0, 1).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePasscode returns n random decimal digits.
func GeneratePasscode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate passcode: %w", err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}

// GenerateJoinCode returns n characters from the join-code alphabet.
func GenerateJoinCode(n int) (string, error) {
	code := make([]byte, n)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		code[i] = joinCodeAlphabet[v.Int64()]
	}
	return string(code), nil
}

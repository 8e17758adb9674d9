package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// CodeAlphabet is the fixed alphabet secret codes are drawn from: upper and
// lower case letters plus digits, 62 symbols in total.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// otpAlphabet is the digits-only alphabet used for one-time passcodes
// delivered by email.
const otpAlphabet = "0123456789"

// GenerateCode produces a secret code of the given length drawn uniformly
// from [CodeAlphabet] using the operating system's cryptographically secure
// random source. The output is never derived from guessable input such as
// ids or timestamps.
func GenerateCode(length int) (string, error) {
	return randomFromAlphabet(CodeAlphabet, length)
}

// GenerateOTP produces a numeric one-time passcode of the given length
// drawn uniformly from the digits 0-9.
func GenerateOTP(length int) (string, error) {
	return randomFromAlphabet(otpAlphabet, length)
}

// randomFromAlphabet draws length symbols uniformly from alphabet using
// rejection sampling, so no symbol is more likely than another regardless
// of the alphabet size.
func randomFromAlphabet(alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", errors.New("code length must be positive")
	}

	// Largest multiple of len(alphabet) that fits in a byte; bytes at or
	// above it are rejected to keep the distribution uniform.
	limit := byte(256 - 256%len(alphabet))

	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("error reading random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

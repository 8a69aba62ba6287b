package idgen

import (
	"crypto/rand"
	"fmt"
)

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// maxUnbiased is the largest multiple of 62 that fits in a byte; bytes at or
// above it are rejected so every character is equally likely.
const maxUnbiased = 256 - 256%62

// RandomCode returns a base62 token of length n drawn from crypto/rand.
func RandomCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}

	res := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)

	for len(res) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			res = append(res, base62Chars[int(b)%62])
			if len(res) == n {
				break
			}
		}
	}

	return string(res), nil
}

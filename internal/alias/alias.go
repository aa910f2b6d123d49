// Package alias generates random URL-safe link aliases.
package alias

import "crypto/rand"

// Alphabet has exactly 64 characters, so masking a random byte with 0x3f
// selects an index without modulo bias.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// Generate returns a random alias of the given length. Collisions are not
// checked here; the store's unique index is the caller's backstop.
func Generate(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = Alphabet[b&0x3f]
	}
	return string(buf), nil
}

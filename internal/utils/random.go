package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns a URL-safe random string with the given number
// of bytes of entropy.
func RandomString(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

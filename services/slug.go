package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Karışabilecek karakterler (0/o, 1/l/i) alfabede yok.
const (
	slugAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	slugLength   = 8
	slugAttempts = 3
)

// newSlug, public link için 8 karakterlik rastgele kimlik üretir.
func newSlug() (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, slugLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug: %w", err)
		}
		b[i] = slugAlphabet[n.Int64()]
	}
	return string(b), nil
}

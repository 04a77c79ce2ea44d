package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	PINLength   = 8
	PINAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
)

// Generator produces candidate PINs. The registry retries it on collision.
type Generator func() (string, error)

// GeneratePIN - draws PINLength characters uniformly from PINAlphabet.
func GeneratePIN() (string, error) {
	alphabetSize := big.NewInt(int64(len(PINAlphabet)))

	pin := make([]byte, PINLength)
	for i := range pin {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to draw pin character: %w", err)
		}
		pin[i] = PINAlphabet[n.Int64()]
	}

	return string(pin), nil
}

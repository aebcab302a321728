package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewNumericCode returns a uniformly random integer in [min, max] as a decimal string.
func NewNumericCode(min, max int64) (string, error) {
	if max < min {
		return "", fmt.Errorf("generate code: empty range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+min), nil
}

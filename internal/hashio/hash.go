package hashio

import (
	"crypto/sha1" //nolint
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

type HashFunc func([]byte) ([]byte, error)

var ErrHashFuncNotFound = errors.New("hash func not found")

func HashSumFunc(hasher func() hash.Hash) HashFunc {
	return func(in []byte) ([]byte, error) {
		h := hasher()
		if _, err := h.Write(in); err != nil {
			return nil, fmt.Errorf("%T(hash.Hash) write: %w", h, err)
		}

		return h.Sum(nil), nil
	}
}

func SHA1HashFunc() HashFunc {
	return HashSumFunc(sha1.New)
}

// HexSum applies hashFunc to b and returns the lowercase hex digest
func HexSum(b []byte, hashFunc HashFunc) (string, error) {
	if hashFunc == nil {
		return "", ErrHashFuncNotFound
	}

	sum, err := hashFunc(b)
	if err != nil {
		return "", fmt.Errorf("call HashFunc: %w", err)
	}

	return hex.EncodeToString(sum), nil
}

package util

import (
	"crypto/rand"
	"math/big"
)

const (
	digits       = "0123456789"
	tokenCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// RandomNumericString generates a random string containing only digits.
func RandomNumericString(length int) string {
	return randomFrom(digits, length)
}

// RandomToken generates a short lowercase alphanumeric token.
func RandomToken(length int) string {
	return randomFrom(tokenCharset, length)
}

func randomFrom(charset string, length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = charset[num.Int64()]
	}
	return string(b)
}

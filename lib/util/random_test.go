package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomNumericString(t *testing.T) {
	for i := 0; i < 50; i++ {
		value := RandomNumericString(4)
		assert.Regexp(t, regexp.MustCompile(`^\d{4}$`), value)
	}
}

func TestRandomToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		value := RandomToken(6)
		assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{6}$`), value)
		seen[value] = true
	}
	assert.Greater(t, len(seen), 1)
}

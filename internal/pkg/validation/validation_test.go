package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("maya@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.io"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("a b@example.com"))
	assert.False(t, IsValidEmail("a@b"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("s3cret!pass"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("lettersonly!"))
	assert.False(t, IsValidPassword("12345678!"))
	assert.False(t, IsValidPassword("letters4nums"))
}

func TestIsValidWalletAddress(t *testing.T) {
	assert.True(t, IsValidWalletAddress("0x"+"ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"))
	assert.False(t, IsValidWalletAddress("0x1234"))
	assert.False(t, IsValidWalletAddress("ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd"))
	assert.False(t, IsValidWalletAddress("0x"+"zz12cd34ef56ab12cd34ef56ab12cd34ef56ab12"))
}

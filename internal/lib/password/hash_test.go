package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_And_CompareHash(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{name: "обычный пароль", secret: "correct horse battery staple"},
		{name: "шестизначный код", secret: "493027"},
		{name: "пароль с unicode", secret: "пароль123!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.secret)
			require.NoError(t, err)
			assert.NotEqual(t, tt.secret, hash)

			assert.NoError(t, CompareHash(hash, tt.secret))
			assert.Error(t, CompareHash(hash, tt.secret+"x"))
		})
	}
}

func TestCompareHash_NotAHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "anything"))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)
	assert.Equal(t, 12, h.Cost())

	hash, err := h.Hash("Abc1!x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestBcryptHasher_UniqueSalts(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("Abc1!x")
	require.NoError(t, err)
	b, err := h.Hash("Abc1!x")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("Abc1!x", a))
	assert.True(t, h.Verify("Abc1!x", b))
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("Secret1!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct", "Secret1!", hash, true},
		{"wrong", "Secret2!", hash, false},
		{"empty password", "", hash, false},
		{"malformed hash", "Secret1!", "not-a-bcrypt-hash", false},
		{"empty hash", "Secret1!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.password, tt.hash))
		})
	}
}

func TestBcryptHasher_CostClamp(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).Cost())
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	low := NewBcryptHasher(bcrypt.MinCost)
	hash, err := low.Hash("Secret1!")
	require.NoError(t, err)

	assert.False(t, low.NeedsRehash(hash))
	assert.True(t, NewBcryptHasher(bcrypt.MinCost+1).NeedsRehash(hash))
	assert.True(t, low.NeedsRehash("garbage"))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndCompare(t *testing.T) {
	hasher := NewBcryptPasswordHasherWithCost(4) // low cost keeps the test fast

	hash, err := hasher.Hash("ocean-view-1234")
	require.NoError(t, err)
	assert.NotEqual(t, "ocean-view-1234", hash)

	assert.NoError(t, hasher.Compare(hash, "ocean-view-1234"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}

func TestBcryptHashesDiffer(t *testing.T) {
	hasher := NewBcryptPasswordHasherWithCost(4)

	h1, err := hasher.Hash("same-password")
	require.NoError(t, err)
	h2, err := hasher.Hash("same-password")
	require.NoError(t, err)

	// Salted hashes never repeat.
	assert.NotEqual(t, h1, h2)
}

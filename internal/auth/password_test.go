package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordDeterministic(t *testing.T) {
	require.Equal(t, HashPassword("pw123"), HashPassword("pw123"))
	require.Len(t, HashPassword("pw123"), 64)
}

func TestHashPasswordKnownVector(t *testing.T) {
	// SHA-256("abc")
	require.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashPassword("abc"))
}

func TestHashPasswordDistinctInputs(t *testing.T) {
	require.NotEqual(t, HashPassword("pw123"), HashPassword("pw124"))
	require.NotEqual(t, HashPassword(""), HashPassword(" "))
}

func TestCheckPassword(t *testing.T) {
	digest := HashPassword("correct horse")
	require.True(t, CheckPassword("correct horse", digest))
	require.False(t, CheckPassword("correct horsf", digest))
	require.False(t, CheckPassword("correct horse", digest+"00"))
}

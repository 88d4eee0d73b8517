package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "artist", "admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		require.True(t, role.Valid())
	}

	for _, invalid := range []string{"", "staff", "User", "ADMIN"} {
		_, err := ParseRole(invalid)
		require.ErrorIs(t, err, ErrUnknownRole)
	}
}

func TestRoleTable(t *testing.T) {
	require.Equal(t, "users", RoleUser.Table())
	require.Equal(t, "artists", RoleArtist.Table())
	require.Equal(t, "admins", RoleAdmin.Table())
}

func TestRoleFlags(t *testing.T) {
	require.False(t, RoleUser.IsAdmin())
	require.False(t, RoleUser.IsArtist())
	require.True(t, RoleArtist.IsArtist())
	require.False(t, RoleArtist.IsAdmin())
	require.True(t, RoleAdmin.IsAdmin())
	require.False(t, RoleAdmin.IsArtist())
}

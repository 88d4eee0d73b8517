package twofactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/afriart/gallery-service/internal/domain"
)

func TestRedisKeyShape(t *testing.T) {
	require.Equal(t, "2fa:user:alice@x.com", redisKey("alice@x.com", domain.RoleUser))
	require.Equal(t, "2fa:admin:root@x.com", redisKey("root@x.com", domain.RoleAdmin))
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := randomCode()
		require.Len(t, code, 4)
		require.GreaterOrEqual(t, code, "1000")
		require.LessOrEqual(t, code, "9999")
	}
}

package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{UserID: "u1", Role: user.RoleOwner, IsAdmin: true})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "owner", claims["role"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, "u1", claims["user_id"])
}

func TestGenerateAccessToken_Errors(t *testing.T) {
	_, _, err := NewJWTService("s", "15m").GenerateAccessToken(user.Principal{UserID: "u1", Role: "root"})
	assert.Error(t, err)

	_, _, err = NewJWTService("s", "soon").GenerateAccessToken(user.Principal{UserID: "u1", Role: user.RoleManager})
	assert.Error(t, err)
}

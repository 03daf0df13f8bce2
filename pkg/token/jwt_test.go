package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	tokenString, err := m.GenerateToken("admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := m.VerifyToken(tokenString)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	tokenString, err := NewJWTManager("secret", 1, 7).GenerateToken("admin")
	require.NoError(t, err)

	_, err = NewJWTManager("other-secret", 1, 7).VerifyToken(tokenString)
	require.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	_, err := m.VerifyToken("not-a-jwt")
	require.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	// 有效期为 0 小时的 access token 立即过期
	m := NewJWTManager("secret", 0, 0)

	tokenString, err := m.GenerateToken("admin")
	require.NoError(t, err)

	_, err = m.VerifyToken(tokenString)
	require.Error(t, err)
}

package token

import (
	"testing"
	"time"

	"bookstore/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_IssueAndParse(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	user := model.User{ID: 42, Username: "alice", Role: model.RoleAdmin, TokenVersion: 3}

	raw, exp, err := j.Issue(user, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := j.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, model.RoleAdmin, id.Role)
	assert.Equal(t, 3, id.TokenVersion)
	assert.True(t, id.IsAdmin())
}

func TestJWT_Parse_Rejects(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	user := model.User{ID: 1, Username: "bob", Role: model.RoleCustomer}

	expired, _, err := j.Issue(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	otherKey, _, err := NewJWT("other", time.Hour).Issue(user, time.Now())
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "role": "Root", "tv": 0, "exp": time.Now().Add(time.Hour).Unix(),
	})
	badRoleRaw, err := badRole.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"bad role":  badRoleRaw,
		"garbage":   "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

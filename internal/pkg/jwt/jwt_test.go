package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	issued := time.Now()
	token, expiresAt, err := svc.GenerateAccessToken(Subject{UserID: "u1", EmployeeID: "e1", Department: "eng", IsAdmin: true})
	require.NoError(t, err)
	assert.InDelta(t, issued.Add(15*time.Minute).Unix(), expiresAt, 2)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	sub, err := SubjectFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Subject{UserID: "u1", EmployeeID: "e1", Department: "eng", IsAdmin: true}, sub)
}

func TestSubjectFromContext_RejectsOtherTokens(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{"user_id": "u1", "type": "refresh"})
	require.NoError(t, err)
	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	_, err = SubjectFromContext(jwtauth.NewContext(context.Background(), decoded, nil))
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = SubjectFromContext(context.Background())
	assert.Error(t, err)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}

package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Subject is the caller identified by an access token.
type Subject struct {
	UserID     string
	EmployeeID string
	Department string
	IsAdmin    bool
}

type Service interface {
	GenerateAccessToken(sub Subject) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService signs HS256 tokens with secretKey. accessTokenExpirationTime is a
// time.ParseDuration string such as "15m".
func NewJWTService(secretKey string, accessTokenExpirationTime string) (*JWTService, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(sub Subject) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":  sub.UserID,
		"is_admin": sub.IsAdmin,
		"type":     tokenTypeAccess,
		"exp":      expiresAt,
	}
	if sub.EmployeeID != "" {
		claims["employee_id"] = sub.EmployeeID
	}
	if sub.Department != "" {
		claims["department"] = sub.Department
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// SubjectFromContext reads the verified access token placed on ctx by jwtauth.Verifier.
func SubjectFromContext(ctx context.Context) (Subject, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Subject{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	if typ, _ := claims["type"].(string); typ != tokenTypeAccess {
		return Subject{}, ErrInvalidClaims
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Subject{}, ErrInvalidClaims
	}

	sub := Subject{UserID: userID}
	sub.EmployeeID, _ = claims["employee_id"].(string)
	sub.Department, _ = claims["department"].(string)
	sub.IsAdmin, _ = claims["is_admin"].(bool)
	return sub, nil
}

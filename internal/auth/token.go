package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "verse-api"
	tokenAudience = "verse-client"
)

// ErrInvalidToken is returned for every token verification failure.
// Malformed, expired and badly-signed tokens are deliberately
// indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity carried by a session token.
type Claims struct {
	Username    string
	DisplayName string
}

// TokenService issues and verifies HMAC-signed session tokens.
// There is no revocation list: logout is a client-side discard, which is a
// known limitation of this design.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with the given symmetric
// secret and issuing tokens valid for ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given identity.
func (t *TokenService) Issue(claims Claims) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          claims.Username,
		"display_name": claims.DisplayName,
		"iss":          tokenIssuer,
		"aud":          tokenAudience,
		"exp":          now.Add(t.ttl).Unix(),
		"iat":          now.Unix(),
		"nbf":          now.Unix(),
		"jti":          generateJTI(),
	})
	return token.SignedString(t.secret)
}

// Verify parses and validates a token and returns its claims.
// Only HMAC-signed tokens are accepted; tokens signed with any other
// algorithm are rejected.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, ok := mapClaims["sub"].(string)
	if !ok || username == "" {
		return nil, ErrInvalidToken
	}
	displayName, _ := mapClaims["display_name"].(string)

	return &Claims{Username: username, DisplayName: displayName}, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

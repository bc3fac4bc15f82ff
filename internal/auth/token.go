package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/audioryx/backend/internal/models"
)

// Roles carried in token claims. RoleEmployee is the privileged synthetic
// identity minted from server configuration alone.
const (
	RoleUser     = "user"
	RoleEmployee = "employee"
)

const (
	userTokenTTL     = 7 * 24 * time.Hour
	employeeTokenTTL = 2 * time.Hour
)

// ErrMissingToken means no bearer credential was presented at all.
var ErrMissingToken = errors.New("missing token")

// ErrInvalidToken covers bad signatures, malformed claims, and expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity resolved from a verified bearer token.
type Claims struct {
	IdentityID int64
	Email      string
	Role       string
}

// TokenManager issues and verifies signed JWTs for authenticated identities.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a manager with the provided secret and issuer.
// The secret must come from configuration; there is no default.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue signs a token for the identity. Employee tokens live 2 hours, user
// tokens 7 days.
func (t *TokenManager) Issue(identity models.Identity, role string) (string, error) {
	ttl := userTokenTTL
	if role == RoleEmployee {
		ttl = employeeTokenTTL
	}
	return t.issueWithTTL(identity, role, ttl)
}

func (t *TokenManager) issueWithTTL(identity models.Identity, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   strconv.FormatInt(identity.ID, 10),
		"email": identity.Email,
		"role":  role,
		// Distinct id per issuance so two logins in the same second never
		// produce the same token string.
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a bearer token string and returns its claims.
func (t *TokenManager) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrMissingToken
	}
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	return Claims{IdentityID: id, Email: email, Role: role}, nil
}

package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studenthub-server-go/internal/platform/errors"
)

// Claims is the payload carried inside an access token. The subject is the
// canonical decimal string form of the user id; role is the role name at
// issuance time.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user identifier.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, errors.Wrap(errors.KindToken, "claims.user_id", "malformed subject", err)
	}
	return uint(id), nil
}

var (
	// ErrMissingSecret marks a server configuration fault, not a client
	// authentication failure.
	ErrMissingSecret = errors.New(errors.KindConfig, "token", "signing secret not configured")

	// ErrInvalidToken collapses every verification failure (bad signature,
	// malformed structure, wrong algorithm, expired) into one opaque error.
	ErrInvalidToken = errors.New(errors.KindToken, "token.verify", "invalid token")

	// ErrBadExpiry rejects issuance of claims without a strictly future
	// expiration.
	ErrBadExpiry = errors.New(errors.KindToken, "token.issue", "expiration must be in the future")
)

// TokenCodec signs and verifies compact HS256 tokens. The algorithm is
// pinned on the verifying side so a token cannot select its own.
type TokenCodec struct {
	secrets SecretSource
}

func NewTokenCodec(secrets SecretSource) *TokenCodec {
	return &TokenCodec{secrets: secrets}
}

var validMethods = []string{jwt.SigningMethodHS256.Alg()}

// Issue serializes and signs the claims. The expiration is the caller's to
// compute; claims without a future expiry are refused.
func (tc *TokenCodec) Issue(claims Claims) (string, error) {
	secret := tc.secrets.Secret()
	if secret == "" {
		return "", ErrMissingSecret
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return "", ErrBadExpiry
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(errors.KindToken, "token.issue", "failed to sign token", err)
	}
	return signed, nil
}

// Verify parses the token, checks the HS256 signature against the configured
// secret and validates expiry. All failures map to ErrInvalidToken; only a
// missing secret is reported distinctly, as a configuration fault.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	secret := tc.secrets.Secret()
	if secret == "" {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods(validMethods),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

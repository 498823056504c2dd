// Package auth issues and validates identity tokens and verifies credentials.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"folio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token validation failures. Every rejected token maps to exactly one of these.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenMalformed   = errors.New("token is malformed")
)

// DefaultTokenTTL is used when a codec is built without an explicit lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the identity projected out of a valid token.
type Claims struct {
	SubjectID   uint
	Role        models.Role
	DisplayName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ID          string
}

// Identity returns the request identity the claims describe.
func (c Claims) Identity() Identity {
	return Identity{SubjectID: c.SubjectID, Role: c.Role, DisplayName: c.DisplayName}
}

type tokenClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 identity tokens. It holds no per-token
// state, so any instance built with the same secret accepts the same tokens.
type TokenCodec struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithIssuer sets the iss claim written and required.
func WithIssuer(issuer string) CodecOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// WithAudience sets the aud claim written and required.
func WithAudience(audience string) CodecOption {
	return func(c *TokenCodec) { c.audience = audience }
}

// WithClock replaces the wall clock used for issuing and validating.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec builds a codec around a shared HMAC secret.
func NewTokenCodec(secret string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of tokens issued by c.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject valid for the configured TTL.
func (c *TokenCodec) Issue(subjectID uint, role models.Role, displayName string) (string, error) {
	if subjectID == 0 {
		return "", errors.New("subject id is required")
	}
	now := c.now()
	claims := tokenClaims{
		Role: string(role),
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}
	if c.issuer != "" {
		claims.Issuer = c.issuer
	}
	if c.audience != "" {
		claims.Audience = jwt.ClaimStrings{c.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, structure and expiry.
func (c *TokenCodec) Validate(token string) error {
	_, err := c.Decode(token)
	return err
}

// Decode verifies token and returns its claims. It never returns claims of a
// token that fails validation.
func (c *TokenCodec) Decode(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		opts = append(opts, jwt.WithAudience(c.audience))
	}

	var parsed tokenClaims
	tok, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, classify(err)
	}
	if !tok.Valid {
		return Claims{}, ErrTokenMalformed
	}

	subjectID, err := strconv.ParseUint(parsed.Subject, 10, 64)
	if err != nil || subjectID == 0 {
		return Claims{}, fmt.Errorf("%w: subject %q", ErrTokenMalformed, parsed.Subject)
	}
	role := models.Role(parsed.Role)
	if !role.Valid() {
		return Claims{}, fmt.Errorf("%w: role %q", ErrTokenMalformed, parsed.Role)
	}

	out := Claims{
		SubjectID:   uint(subjectID),
		Role:        role,
		DisplayName: parsed.Name,
		ID:          parsed.ID,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}

// classify maps library errors onto the three validation failures. Signature
// problems win over claim problems since claims of a forged token mean nothing.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

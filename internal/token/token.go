// Package token issues and verifies the signed bearer tokens used by both
// principal kinds.  Tokens are HS256 JWTs carrying only a subject and an
// expiry; the principal kind is discriminated by the signing key alone, so a
// user token presented to an admin check fails signature verification even
// when it is otherwise well formed.  There is no revocation list: tokens are
// stateless and self-expiring, and logout merely discards the cookie.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PrincipalKind selects which signing secret a token is bound to.  The two
// kinds are authorization-disjoint.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

// ErrExpired is returned by Verify when the token's expiry instant has
// passed.  The signature was otherwise acceptable.
var ErrExpired = errors.New("token expired")

// ErrInvalidToken is returned by Verify for malformed or forged tokens,
// including well-formed tokens signed under the other kind's secret.
var ErrInvalidToken = errors.New("invalid token")

// Service signs and verifies tokens.  It holds one secret per principal
// kind and a shared TTL.  Signing and verification are pure CPU work and
// never block.
type Service struct {
	userSecret  []byte
	adminSecret []byte
	ttl         time.Duration
}

// NewService builds a Service from the two configured secrets and a TTL in
// minutes.
func NewService(userSecret, adminSecret string, ttlMin int) *Service {
	return &Service{
		userSecret:  []byte(userSecret),
		adminSecret: []byte(adminSecret),
		ttl:         time.Duration(ttlMin) * time.Minute,
	}
}

// secretFor maps a kind to its signing secret.  Unknown kinds resolve to
// nil, which fails both signing and verification.
func (s *Service) secretFor(kind PrincipalKind) []byte {
	switch kind {
	case KindUser:
		return s.userSecret
	case KindAdmin:
		return s.adminSecret
	}
	return nil
}

// Issue signs a token for the given subject under the kind's secret and
// returns the serialized JWT together with its expiry instant.
func (s *Service) Issue(subject string, kind PrincipalKind) (string, time.Time, error) {
	secret := s.secretFor(kind)
	if secret == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	exp := time.Now().UTC().Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks a raw token against the secret of the expected kind and
// returns the subject.  Expired tokens yield ErrExpired; anything else that
// fails to parse or validate — bad structure, bad signature, wrong kind,
// wrong algorithm — yields ErrInvalidToken.
func (s *Service) Verify(raw string, expected PrincipalKind) (string, error) {
	secret := s.secretFor(expected)
	if secret == nil {
		return "", ErrInvalidToken
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

package utils // package utils provides token signing and password hashing helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Clock supplies the current time.  Tests inject a fixed one.
type Clock func() time.Time

// SystemClock returns the current UTC time.
func SystemClock() time.Time { return time.Now().UTC() }

// ErrInvalidToken is returned for every token that fails to parse or verify.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT and its absolute expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// SessionClaims is the token payload: the username in `sub` plus iat/exp.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with one HMAC algorithm
// fixed at construction.  Tokens naming any other algorithm are rejected.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    Clock
}

// NewTokenIssuer accepts HS256, HS384 or HS512.  A nil clock means
// SystemClock.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration, clock Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if clock == nil {
		clock = SystemClock
	}
	return &TokenIssuer{secret: []byte(secret), method: method, ttl: ttl, now: clock}, nil
}

// Issue signs a token for subject.  A non-positive ttl uses the default.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (AccessToken, error) {
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return AccessToken{}, err
	}
	// exp is encoded with second precision
	return AccessToken{Token: signed, Exp: claims.ExpiresAt.Time}, nil
}

// Parse verifies signature, algorithm and expiry and returns the subject.
// A token is expired from its exp instant onwards.  Every failure is
// reported as ErrInvalidToken wrapping the cause.
func (i *TokenIssuer) Parse(raw string) (string, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

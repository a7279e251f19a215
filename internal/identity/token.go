package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the access token claims. The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Secret() []byte {
	return i.secret
}

// Issue returns a signed token for the user and its expiry time.
func (i *Issuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error signing token: %w", err)
	}
	return t, expires, nil
}

// Parse verifies a token and returns the user id it was issued for.
func (i *Issuer) Parse(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	return subjectOf(claims)
}

func (i *Issuer) keyFunc(*jwt.Token) (any, error) {
	return i.secret, nil
}

func subjectOf(claims *Claims) (string, error) {
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid token subject")
	}
	return claims.Subject, nil
}

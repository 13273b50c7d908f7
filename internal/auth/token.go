package auth

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
)

var (
	ErrMissingSigningKey = errors.New("token issuer: no signing key configured")
	ErrInvalidToken      = errors.New("invalid token")
)

// Claims is the JWT payload: sub is the user id.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal carried on a request.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Username: c.Username, Email: c.Email}
}

type IssuerConfig struct {
	// Secret selects HS256.
	Secret string
	// PrivateKeyPEM selects RS256 and takes precedence over Secret.
	PrivateKeyPEM string
	Issuer        string
	TTL           time.Duration
}

// TokenVerifier is what the route guard needs.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Issuer signs and verifies access tokens.
type Issuer struct {
	method  jwt.SigningMethod
	signKey any
	verKey  any
	kid     string
	issuer  string
	ttl     time.Duration
	now     func() time.Time
}

func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	iss := &Issuer{issuer: cfg.Issuer, ttl: ttl, now: time.Now}
	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse jwt private key: %w", err)
		}
		iss.method = jwt.SigningMethodRS256
		iss.signKey = key
		iss.verKey = &key.PublicKey
		iss.kid = keyID(&key.PublicKey)
	case cfg.Secret != "":
		iss.method = jwt.SigningMethodHS256
		iss.signKey = []byte(cfg.Secret)
		iss.verKey = []byte(cfg.Secret)
	default:
		return nil, ErrMissingSigningKey
	}
	return iss, nil
}

// Algorithm returns the JWS alg in use.
func (i *Issuer) Algorithm() string { return i.method.Alg() }

// Issue signs a token for id. The returned time is the token's expiry.
func (i *Issuer) Issue(id Identity) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := Claims{
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(i.method, claims)
	if i.kid != "" {
		token.Header["kid"] = i.kid
	}
	signed, err := token.SignedString(i.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm, issuer and expiry. Every failure matches
// ErrInvalidToken and apperr.ErrUnauthorized; the jwt cause stays in the chain.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return i.verKey, nil
	}, opts...)
	if err != nil {
		return nil, invalidToken(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, invalidToken(jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

func invalidToken(cause error) error {
	return apperr.Unauthorized("invalid_token", "Invalid or expired token").
		Wrap(fmt.Errorf("%w: %w", ErrInvalidToken, cause))
}

// keyID derives a stable kid from the public modulus.
func keyID(pub *rsa.PublicKey) string {
	h := sha256.Sum256(pub.N.Bytes())
	return base64.RawURLEncoding.EncodeToString(h[:8])
}

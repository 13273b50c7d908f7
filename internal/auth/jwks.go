package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
)

// JWK is a public RSA signing key in JSON Web Key form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS returns the verification key set, or false for symmetric signing.
func (i *Issuer) JWKS() (JWKS, bool) {
	pub, ok := i.verKey.(*rsa.PublicKey)
	if !ok {
		return JWKS{}, false
	}
	return JWKS{Keys: []JWK{{
		Kty: "RSA",
		Use: "sig",
		Alg: i.method.Alg(),
		Kid: i.kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}}}, true
}

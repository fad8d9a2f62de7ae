package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadPEMKey(envVar string, parse func([]byte) error) error {
	if pem, ok := os.LookupEnv(envVar); ok {
		return parse([]byte(pem))
	}
	path, ok := os.LookupEnv(envVar + "_FILE")
	if !ok {
		return fmt.Errorf("no %s or %s_FILE env variable set", envVar, envVar)
	}
	pem, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}
	return parse(pem)
}

func NewJWT() (*JWT, error) {
	j := &JWT{
		signingMethod: jwt.GetSigningMethod("RS256"),
		tokenLifetime: time.Hour * 24 * 30,
	}

	err := loadPEMKey("JWT_PRIVATE_KEY", func(pem []byte) (err error) {
		j.privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(pem)
		return
	})
	if err != nil {
		return nil, err
	}

	err = loadPEMKey("JWT_PUBLIC_KEY", func(pem []byte) (err error) {
		j.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(pem)
		return
	})
	if err != nil {
		return nil, err
	}

	if lifetime, ok := os.LookupEnv("JWT_TOKEN_LIFETIME"); ok {
		j.tokenLifetime, err = time.ParseDuration(lifetime)
		if err != nil {
			return nil, fmt.Errorf("unable to parse JWT_TOKEN_LIFETIME: %w", err)
		}
	}

	return j, nil
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
	)
}

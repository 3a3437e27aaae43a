package github

import (
	"crypto/rsa"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// appJWTIssuer mints short-lived RS256 JWTs identifying the GitHub App
// itself (not an installation). Every call produces a fresh token; tokens
// are deliberately never cached so each verification re-authenticates
// against GitHub from scratch.
type appJWTIssuer struct {
	appID      int64
	privateKey *rsa.PrivateKey
}

func newAppJWTIssuer(appID int64, privateKey *rsa.PrivateKey) (*appJWTIssuer, error) {
	if appID <= 0 {
		return nil, fmt.Errorf("app ID must be positive, got %d", appID)
	}
	if privateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	return &appJWTIssuer{
		appID:      appID,
		privateKey: privateKey,
	}, nil
}

// issue signs a new App JWT. iat is backdated 60 seconds to absorb clock
// drift against GitHub; exp stays at 9 minutes, under GitHub's 10 minute
// ceiling.
func (i *appJWTIssuer) issue() (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iat": jwt.NewNumericDate(now.Add(-60 * time.Second)),
		"exp": jwt.NewNumericDate(now.Add(9 * time.Minute)),
		"iss": strconv.FormatInt(i.appID, 10),
	})

	tokenString, err := token.SignedString(i.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}

	return tokenString, nil
}

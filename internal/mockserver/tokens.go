package mockserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errTokenInvalid = errors.New("invalid token")

type claims struct {
	SubClient string `json:"sub_client"`
	jwt.RegisteredClaims
}

// tokenIssuer mints and validates the HS256 access tokens the emulated key
// service hands out. Short TTLs let tests exercise the refresh path.
type tokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func (i *tokenIssuer) issue(subClient string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SubClient: subClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "scandoc-mock",
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (i *tokenIssuer) validate(tokenString string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return errTokenInvalid
	}
	return nil
}

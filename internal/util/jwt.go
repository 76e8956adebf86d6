package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// UserMetadata is the metadata the auth service stores at sign-up.
type UserMetadata struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Claims is the JWT payload issued by the auth service.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.StandardClaims
}

// ValidateJWT verifies tokenString against keyMaterial. A PEM public key
// accepts only RSA tokens; anything else is an HMAC secret and accepts only
// HMAC tokens. The token's alg header never chooses the key type.
func ValidateJWT(tokenString string, keyMaterial string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	var keyFunc jwt.Keyfunc
	if strings.Contains(keyMaterial, "-----BEGIN") {
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(keyMaterial))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		keyFunc = func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return publicKey, nil
		}
	} else {
		keyFunc = func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(keyMaterial), nil
		}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// SignHS256 issues an HMAC token for the given claims. Used by local tooling
// and tests to mint tokens the middleware accepts.
func SignHS256(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

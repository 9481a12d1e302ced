package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractTokenFromRequest pulls the bearer token out of the Authorization
// header.
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// SubjectFromRequest returns the authenticated subject: the value stored
// by Middleware when it ran, otherwise the sub claim parsed straight from
// the bearer token. The fallback covers deployments where a gateway in
// front already verified the token.
func SubjectFromRequest(r *http.Request) string {
	if uid := UserID(r.Context()); uid != "" {
		return uid
	}

	token, err := ExtractTokenFromRequest(r)
	if err != nil {
		return ""
	}
	sub, _ := ExtractUserIDFromJWT(token)
	return sub
}

// ExtractUserIDFromJWT reads the 'sub' claim without verifying the
// signature. Verification happens in Middleware; this is for call sites
// that only need the subject after the middleware already ran.
func ExtractUserIDFromJWT(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("subject claim not found in token")
	}

	return sub, nil
}

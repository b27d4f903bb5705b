package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

const tokenTTL = 24 * time.Hour

func secret() []byte {
	return []byte(os.Getenv("API_SECRET"))
}

func CreateToken(id uint) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["id"] = id
	claims["exp"] = time.Now().Add(tokenTTL).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// TokenValid reports whether the request carries a token signed with API_SECRET.
func TokenValid(r *http.Request) error {
	_, err := parse(ExtractToken(r))
	return err
}

// ExtractToken reads the token from the "token" query parameter or the
// Authorization bearer header.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	bearer := r.Header.Get("Authorization")
	if parts := strings.Split(bearer, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func ExtractTokenID(r *http.Request) (uint, error) {
	token, err := parse(ExtractToken(r))
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}
	uid, err := strconv.ParseUint(fmt.Sprintf("%.0f", claims["id"]), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(uid), nil
}

func parse(raw string) (*jwt.Token, error) {
	if raw == "" {
		return nil, errors.New("missing token")
	}
	return jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret(), nil
	})
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a session descriptor into an HS256 JWT so it can
// be handed between processes.
func GenerateToken(sess Session, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":         sess.UserID,
		"role":        string(sess.Role),
		"companyCode": sess.CompanyCode,
		"exp":         time.Now().Add(time.Hour * 24).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token produced by GenerateToken and rebuilds
// the session descriptor from its claims.
func ParseToken(tokenString, secret string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	code, _ := claims["companyCode"].(string)
	rawRole, _ := claims["role"].(string)
	role, err := ParseRole(rawRole)
	if err != nil {
		return Session{}, err
	}

	sess := Session{CompanyCode: code, Role: role, UserID: sub}
	if !sess.Valid() {
		return Session{}, fmt.Errorf("incomplete token claims")
	}
	return sess, nil
}

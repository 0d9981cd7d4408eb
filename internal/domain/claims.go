package domain

import "github.com/golang-jwt/jwt/v5"

// Claims são as informações do operador autenticado na API
type Claims struct {
	UserEmail string `json:"email"`
	UserRole  string `json:"role"`
	jwt.RegisteredClaims
}

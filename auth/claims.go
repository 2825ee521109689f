package auth

import "github.com/golang-jwt/jwt/v5"

// Claims 服务 Token 载荷，Subject 为调用方服务名
type Claims struct {
	jwt.RegisteredClaims

	Scopes []string `json:"scopes,omitempty"`
}

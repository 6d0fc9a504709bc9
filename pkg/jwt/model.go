package jwt

import "github.com/golang-jwt/jwt/v5"

// tokenType 令牌类型
type tokenType string

const (
	accessToken  tokenType = "accessToken"
	refreshToken tokenType = "refreshToken"
)

// SessionClaims 匿名会话声明，OwnerID 用于隔离代码片段
type SessionClaims struct {
	OwnerID int64 `json:"ownerId,string"`
	jwt.RegisteredClaims
}

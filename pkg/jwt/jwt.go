package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const issuer = "codepad"

var (
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("expired token")
)

type JWT struct {
	accessSecret         []byte // 访问令牌密钥
	refreshSecret        []byte // 刷新令牌密钥
	accessExpireSeconds  int64  // 访问令牌过期时间
	refreshExpireSeconds int64  // 刷新令牌过期时间
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func NewJWT(viper *viper.Viper) *JWT {
	return New(
		viper.GetString("jwt.access_secret"),
		viper.GetString("jwt.refresh_secret"),
		viper.GetInt64("jwt.access_expire_seconds"),
		viper.GetInt64("jwt.refresh_expire_seconds"),
	)
}

// New 直接以密钥和有效期（秒）构造
func New(accessSecret, refreshSecret string, accessExpireSeconds, refreshExpireSeconds int64) *JWT {
	return &JWT{
		accessSecret:         []byte(accessSecret),
		refreshSecret:        []byte(refreshSecret),
		accessExpireSeconds:  accessExpireSeconds,
		refreshExpireSeconds: refreshExpireSeconds,
	}
}

// MustInit 从配置创建实例，密钥缺失时 panic
func MustInit(cfg *viper.Viper) *JWT {
	j := NewJWT(cfg)
	if len(j.accessSecret) == 0 || len(j.refreshSecret) == 0 {
		panic(errors.New("jwt.access_secret and jwt.refresh_secret are required"))
	}
	return j
}

// Issue 为所有者签发一对令牌
func (j *JWT) Issue(ownerID int64) (*TokenPair, error) {
	access, expiresAt, err := j.genToken(ownerID, accessToken)
	if err != nil {
		return nil, err
	}
	refresh, _, err := j.genToken(ownerID, refreshToken)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// Refresh 校验刷新令牌并为同一所有者签发新令牌
func (j *JWT) Refresh(refreshTokenString string) (*TokenPair, error) {
	claims, err := j.parseToken(refreshTokenString, refreshToken)
	if err != nil {
		return nil, err
	}
	return j.Issue(claims.OwnerID)
}

// ParseAccessToken 解析 access token
func (j *JWT) ParseAccessToken(tokenString string) (*SessionClaims, error) {
	return j.parseToken(tokenString, accessToken)
}

// genToken 生成token
func (j *JWT) genToken(ownerID int64, typ tokenType) (string, time.Time, error) {
	var (
		expiresAt time.Time
		secret    []byte
	)
	now := time.Now()
	switch typ {
	case accessToken:
		expiresAt = now.Add(time.Duration(j.accessExpireSeconds) * time.Second)
		secret = j.accessSecret
	case refreshToken:
		expiresAt = now.Add(time.Duration(j.refreshExpireSeconds) * time.Second)
		secret = j.refreshSecret
	default:
		return "", time.Time{}, ErrInvalidTokenType
	}
	zap.L().Debug("issue token", zap.String("type", string(typ)), zap.Time("expires_at", expiresAt))
	claims := &SessionClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   string(typ),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt), // 有效期
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret) // 签名
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expiresAt, nil
}

// parseToken 解析 token
func (j *JWT) parseToken(tokenString string, typ tokenType) (*SessionClaims, error) {
	var claim SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claim,
		func(token *jwt.Token) (interface{}, error) {
			switch typ {
			case accessToken:
				return j.accessSecret, nil
			case refreshToken:
				return j.refreshSecret, nil
			default:
				return nil, ErrInvalidTokenType
			}
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(string(typ)),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if token.Valid { // 校验token
		return &claim, nil
	}
	return nil, ErrInvalidToken
}

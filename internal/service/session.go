package service

import (
	"errors"

	apperrors "codepad/pkg/errors"
	"codepad/pkg/jwt"
	"codepad/pkg/snowflake"
)

// Session 匿名会话
type Session struct {
	OwnerID int64 `json:"ownerId,string"`
	*jwt.TokenPair
}

// SessionService 签发匿名所有者令牌
type SessionService struct {
	jwt    *jwt.JWT
	nextID func() (int64, error)
}

func NewSessionService(j *jwt.JWT) *SessionService {
	return &SessionService{jwt: j, nextID: snowflake.NextID}
}

// Start 分配新的所有者 ID 并签发令牌
func (s *SessionService) Start() (*Session, error) {
	ownerID, err := s.nextID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "generate owner id", err)
	}
	pair, err := s.jwt.Issue(ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "issue token", err)
	}
	return &Session{OwnerID: ownerID, TokenPair: pair}, nil
}

// Refresh 用刷新令牌换取新令牌
func (s *SessionService) Refresh(refreshToken string) (*Session, error) {
	pair, err := s.jwt.Refresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "refresh token expired", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "invalid refresh token", err)
	}
	claims, err := s.jwt.ParseAccessToken(pair.AccessToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "parse issued token", err)
	}
	return &Session{OwnerID: claims.OwnerID, TokenPair: pair}, nil
}

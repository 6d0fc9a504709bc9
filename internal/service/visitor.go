package service

import (
	"context"
	"strings"

	"codepad/internal/dao"
	apperrors "codepad/pkg/errors"
)

const maxVisitorIDLength = 128

// VisitorService 访客计数，同一 visitorId 只计一次
type VisitorService struct {
	dao *dao.VisitorDAO
}

func NewVisitorService(d *dao.VisitorDAO) *VisitorService {
	return &VisitorService{dao: d}
}

// Track 记录访客，返回是否为新访客以及当前总数
func (s *VisitorService) Track(ctx context.Context, visitorID string) (bool, int64, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return false, 0, apperrors.NewInvalidParamError("visitorId", "required")
	}
	if len(visitorID) > maxVisitorIDLength {
		return false, 0, apperrors.NewInvalidParamError("visitorId", "too long")
	}
	created, err := s.dao.Track(ctx, visitorID)
	if err != nil {
		return false, 0, apperrors.NewStorageError("track visitor", err)
	}
	total, err := s.Count(ctx)
	if err != nil {
		return false, 0, err
	}
	return created, total, nil
}

// Count 访客总数
func (s *VisitorService) Count(ctx context.Context) (int64, error) {
	n, err := s.dao.Count(ctx)
	if err != nil {
		return 0, apperrors.NewStorageError("count visitors", err)
	}
	return n, nil
}

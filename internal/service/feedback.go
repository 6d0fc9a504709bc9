package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"codepad/internal/constants"
	"codepad/internal/dao"
	"codepad/internal/model"
	apperrors "codepad/pkg/errors"
	"codepad/pkg/snowflake"
)

// FeedbackService 用户反馈
type FeedbackService struct {
	dao    *dao.FeedbackDAO
	nextID func() (int64, error)
}

func NewFeedbackService(d *dao.FeedbackDAO) *FeedbackService {
	return &FeedbackService{dao: d, nextID: snowflake.NextID}
}

// Create 校验并保存一条反馈
func (s *FeedbackService) Create(ctx context.Context, rating int, text string) (*model.Feedback, error) {
	if rating < constants.MinFeedbackRating || rating > constants.MaxFeedbackRating {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRating, "rating must be between 1 and 5")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewInvalidParamError("text", "required")
	}
	if utf8.RuneCountInString(text) > constants.MaxFeedbackLength {
		return nil, apperrors.NewInvalidParamError("text", "too long")
	}

	id, err := s.nextID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "generate feedback id", err)
	}
	fb := &model.Feedback{ID: id, Rating: rating, Text: text}
	if err := s.dao.Create(ctx, fb); err != nil {
		return nil, apperrors.NewStorageError("save feedback", err)
	}
	return fb, nil
}

// Stats 反馈数量与平均分
func (s *FeedbackService) Stats(ctx context.Context) (model.FeedbackStats, error) {
	stats, err := s.dao.Stats(ctx)
	if err != nil {
		return model.FeedbackStats{}, apperrors.NewStorageError("feedback stats", err)
	}
	return stats, nil
}

package dao

import (
	"context"

	"gorm.io/gorm"

	"codepad/internal/model"
)

// FeedbackDAO 反馈表
type FeedbackDAO struct {
	db *gorm.DB
}

func NewFeedbackDAO(db *gorm.DB) *FeedbackDAO {
	return &FeedbackDAO{db: db}
}

func (d *FeedbackDAO) Create(ctx context.Context, f *model.Feedback) error {
	return d.db.WithContext(ctx).Create(f).Error
}

// Stats 反馈总数与平均评分
func (d *FeedbackDAO) Stats(ctx context.Context) (model.FeedbackStats, error) {
	var row struct {
		Count int64
		Avg   *float64
	}
	err := d.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select("COUNT(*) AS count, AVG(rating) AS avg").
		Scan(&row).Error
	if err != nil {
		return model.FeedbackStats{}, err
	}
	stats := model.FeedbackStats{Count: row.Count}
	if row.Avg != nil {
		stats.AverageRating = *row.Avg
	}
	return stats, nil
}

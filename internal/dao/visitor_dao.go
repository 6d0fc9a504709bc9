package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"codepad/internal/model"
)

// VisitorDAO 访客表
type VisitorDAO struct {
	db *gorm.DB
}

func NewVisitorDAO(db *gorm.DB) *VisitorDAO {
	return &VisitorDAO{db: db}
}

// Track 记录访客，已存在时不重复写入，返回是否新建
func (d *VisitorDAO) Track(ctx context.Context, visitorID string) (bool, error) {
	v := model.Visitor{VisitorID: visitorID}
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "visitor_id"}}, DoNothing: true}).
		Create(&v)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Count 访客总数
func (d *VisitorDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&model.Visitor{}).Count(&n).Error
	return n, err
}

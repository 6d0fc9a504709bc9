package dao

import (
	"context"

	"gorm.io/gorm"

	"codepad/internal/model"
)

// SnippetDAO 代码片段表
type SnippetDAO struct {
	db *gorm.DB
}

func NewSnippetDAO(db *gorm.DB) *SnippetDAO {
	return &SnippetDAO{db: db}
}

// Create 插入片段
func (d *SnippetDAO) Create(ctx context.Context, s *model.Snippet) error {
	return d.db.WithContext(ctx).Create(s).Error
}

// ListByOwner 按创建时间倒序列出某个所有者的片段
func (d *SnippetDAO) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Snippet, error) {
	var snippets []model.Snippet
	err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&snippets).Error
	return snippets, err
}

// Get 按所有者和 ID 查找，不存在时返回 gorm.ErrRecordNotFound
func (d *SnippetDAO) Get(ctx context.Context, ownerID, id int64) (*model.Snippet, error) {
	var s model.Snippet
	err := d.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete 删除片段，返回受影响行数
func (d *SnippetDAO) Delete(ctx context.Context, ownerID, id int64) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.Snippet{})
	return res.RowsAffected, res.Error
}

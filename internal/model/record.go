package model

import "time"

// Snippet 用户保存的代码片段
type Snippet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OwnerID   int64     `gorm:"index;not null" json:"-"`
	Title     string    `gorm:"size:255" json:"title"`
	Language  string    `gorm:"size:64" json:"language"`
	Code      string    `gorm:"type:text" json:"code"`
	BlobKey   string    `gorm:"size:255" json:"-"` // 非空时代码存放在对象存储
	CreatedAt time.Time `json:"createdAt"`
}

// Feedback 用户反馈
type Feedback struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Visitor 去重后的访客
type Visitor struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	VisitorID string    `gorm:"size:128;uniqueIndex;not null" json:"visitorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackStats 反馈统计
type FeedbackStats struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

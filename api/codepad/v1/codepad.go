package v1

import "codepad/internal/model"

// SaveSnippetReq 保存代码片段
type SaveSnippetReq struct {
	Code     string `json:"code"`
	Language string `json:"language" binding:"required"`
	Title    string `json:"title"`
}

// SnippetListResp 片段列表
type SnippetListResp struct {
	Snippets []model.Snippet `json:"snippets"`
}

// ShareReq 生成分享链接
type ShareReq struct {
	Code     string `json:"code"`
	Language string `json:"language" binding:"required"`
}

// ShareResp 分享令牌与链接
type ShareResp struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SharedCodeResp 解析后的分享内容
type SharedCodeResp struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// FeedbackReq 提交反馈
type FeedbackReq struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// VisitorReq 访客上报
type VisitorReq struct {
	VisitorID string `json:"visitorId" binding:"required"`
}

// VisitorResp 访客计数
type VisitorResp struct {
	Counted bool  `json:"counted"` // 本次是否为新访客
	Total   int64 `json:"total"`
}

// CountResp 计数
type CountResp struct {
	Count int64 `json:"count"`
}

// RefreshReq 刷新会话
type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"codepad/internal/constants"
	"codepad/internal/dao"
	"codepad/internal/model"
	apperrors "codepad/pkg/errors"
	"codepad/pkg/snowflake"
)

const (
	defaultSnippetTitle = "Untitled"
	blobFetchParallel   = 8
)

// BlobStore 大片段代码的对象存储
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// SnippetService 按所有者隔离的代码片段存储
type SnippetService struct {
	dao         *dao.SnippetDAO
	blob        BlobStore // 可为空，此时全部内联存储
	inlineLimit int
	listLimit   int
	nextID      func() (int64, error)
}

// NewSnippetService blob 为 nil 时不做对象存储分流
func NewSnippetService(d *dao.SnippetDAO, blob BlobStore, inlineLimit, listLimit int) *SnippetService {
	if inlineLimit <= 0 {
		inlineLimit = constants.DefaultSnippetInlineLimit
	}
	if listLimit <= 0 {
		listLimit = constants.DefaultSnippetListLimit
	}
	return &SnippetService{
		dao:         d,
		blob:        blob,
		inlineLimit: inlineLimit,
		listLimit:   listLimit,
		nextID:      snowflake.NextID,
	}
}

// Save 保存片段，返回带 ID 的记录
func (s *SnippetService) Save(ctx context.Context, ownerID int64, code, language, title string) (*model.Snippet, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, apperrors.NewInvalidParamError("language", "required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSnippetTitle
	}
	if len(title) > constants.MaxSnippetTitleLength {
		return nil, apperrors.NewInvalidParamError("title", "too long")
	}

	id, err := s.nextID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "generate snippet id", err)
	}
	snippet := &model.Snippet{
		ID:       id,
		OwnerID:  ownerID,
		Title:    title,
		Language: language,
		Code:     code,
	}

	if s.blob != nil && len(code) > s.inlineLimit {
		key := fmt.Sprintf("%s%d/%d", constants.SnippetBlobPrefix, ownerID, id)
		if err := s.blob.Put(ctx, key, []byte(code)); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeBlobFailed, "store snippet code", err)
		}
		snippet.BlobKey = key
		snippet.Code = ""
	}

	if err := s.dao.Create(ctx, snippet); err != nil {
		if snippet.BlobKey != "" {
			s.removeBlob(ctx, snippet.BlobKey)
		}
		return nil, apperrors.NewStorageError("save snippet", err)
	}
	snippet.Code = code
	return snippet, nil
}

// List 列出所有者的片段，对象存储中的代码并发取回
func (s *SnippetService) List(ctx context.Context, ownerID int64) ([]model.Snippet, error) {
	snippets, err := s.dao.ListByOwner(ctx, ownerID, s.listLimit)
	if err != nil {
		return nil, apperrors.NewStorageError("list snippets", err)
	}
	if s.blob == nil {
		return snippets, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blobFetchParallel)
	for i := range snippets {
		if snippets[i].BlobKey == "" {
			continue
		}
		sn := &snippets[i]
		g.Go(func() error {
			data, err := s.blob.Get(gctx, sn.BlobKey)
			if err != nil {
				return fmt.Errorf("fetch snippet %d: %w", sn.ID, err)
			}
			sn.Code = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeBlobFailed, "load snippet code", err)
	}
	return snippets, nil
}

// Delete 删除所有者的片段，不存在或不属于该所有者时返回 NotFound
func (s *SnippetService) Delete(ctx context.Context, ownerID, id int64) error {
	snippet, err := s.dao.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("snippet")
		}
		return apperrors.NewStorageError("get snippet", err)
	}
	n, err := s.dao.Delete(ctx, ownerID, id)
	if err != nil {
		return apperrors.NewStorageError("delete snippet", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("snippet")
	}
	if snippet.BlobKey != "" && s.blob != nil {
		s.removeBlob(ctx, snippet.BlobKey)
	}
	return nil
}

func (s *SnippetService) removeBlob(ctx context.Context, key string) {
	if err := s.blob.Remove(ctx, key); err != nil {
		zap.L().Warn("remove snippet blob failed", zap.String("key", key), zap.Error(err))
	}
}

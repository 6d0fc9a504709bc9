package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const opTimeout = 30 * time.Second

// Store 代码片段对象存储，对象名由调用方决定
type Store struct {
	client *minio.Client
	bucket string
}

// MustInitMinIO 初始化 MinIO 连接，存储桶不存在时自动创建
func MustInitMinIO(cfg *viper.Viper) *Store {
	client, err := minio.New(cfg.GetString("minio.endpoint"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetString("minio.access_key"), cfg.GetString("minio.secret_key"), ""),
		Secure: cfg.GetBool("minio.use_ssl"),
	})
	if err != nil {
		panic(fmt.Errorf("init minio failed, err:%w", err))
	}
	store := NewStore(client, cfg.GetString("minio.bucket"))

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		panic(fmt.Errorf("init minio bucket failed, err:%w", err))
	}
	return store
}

func NewStore(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// EnsureBucket 检查并创建存储桶
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	zap.L().Info("minio bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Put 写入对象
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("object key cannot be empty")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return fmt.Errorf("put object fail: %w", err)
	}
	return nil
}

// Get 读取对象内容
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("object key cannot be empty")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object fail: %w", err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read object content fail: %w", err)
	}
	return content, nil
}

// Remove 删除对象
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object fail: %w", err)
	}
	return nil
}

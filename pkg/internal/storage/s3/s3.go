// Package s3 处理对象存储操作，档案的电子副本存放在这里.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/archivault/pkg/configs"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3

	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("archivault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.Bucket).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("s3 connected")

	return &Client{Client: cli}, nil
}

// PresignPut 生成上传电子副本用的预签名 PUT URL.
func (c *Client) PresignPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	cfg := configs.GetConfig().S3

	u, err := c.PresignedPutObject(ctx, cfg.Bucket, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// PresignGet 生成下载电子副本用的预签名 GET URL.
func (c *Client) PresignGet(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	cfg := configs.GetConfig().S3

	u, err := c.PresignedGetObject(ctx, cfg.Bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

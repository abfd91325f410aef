// Package service 实现归档业务逻辑：部门路径解析、审计账本、通知投影与档案流转，不处理 HTTP 细节.
package service

import (
	"context"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/storage/db"
	"github.com/yeisme/archivault/pkg/internal/storage/kv"
	"github.com/yeisme/archivault/pkg/internal/storage/mq"
	"github.com/yeisme/archivault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// Service 持有各存储客户端，是所有业务 service 的公共底座.
// DB 必需；S3/KV/MQ 可缺失（对应功能降级），使用前需判空.
type Service struct {
	dbClient *db.Client
	s3Client *s3.Client
	kvClient *kv.Client
	mqClient *mq.Client
}

// newService 从 context 获取依赖实例.
func newService(c context.Context) *Service {
	dbc := ctxPkg.GetDBClient(c)

	// 为了安全起见，应该直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if dbc == nil || dbc.GetDB() == nil {
		nlog.Logger().Fatal().Msg("db client not initialized")
	}

	return &Service{
		dbClient: dbc,
		s3Client: ctxPkg.GetS3Client(c),
		kvClient: ctxPkg.GetKVClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

// dbx 返回绑定 ctx 的 gorm 句柄.
func (s *Service) dbx(ctx context.Context) *gorm.DB {
	return s.dbClient.GetDB().WithContext(ctx)
}

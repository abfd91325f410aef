// Package storage 聚合归档服务用到的存储资源：关系库、对象存储、KV 缓存与消息队列.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // 处理错误
//	}
//
//	dbClient := mgr.GetDBClient()
//	s3Client := mgr.GetS3Client()
package storage

import (
	"context"
	"sync"

	dbc "github.com/yeisme/archivault/pkg/internal/storage/db"
	kvc "github.com/yeisme/archivault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/archivault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/archivault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// Manager 聚合所有存储资源.DB 是必需的，S3/KV/MQ 初始化失败只降级告警，
// 纸质档案流程不依赖它们.
type Manager struct {
	DB *dbc.Client
	S3 *s3c.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		m := &Manager{}

		// DB 必需
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = e

			return
		}

		m.DB = dbi

		// S3 可选（无电子副本时仍可运行）
		if s3i, e := s3c.New(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("s3 unavailable, digital copies disabled")
		} else {
			m.S3 = s3i
		}

		// KV 可选（位置路径缓存）
		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("kv unavailable, location cache disabled")
		} else {
			m.KV = kvi
		}

		// MQ 可选（账本事件流）
		if mqi, e := mqc.New(ctx); e != nil {
			nlog.Logger().Warn().Err(e).Msg("mq unavailable, ledger events disabled")
		} else {
			m.MQ = mqi
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

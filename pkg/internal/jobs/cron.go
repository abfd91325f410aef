// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/archivault/pkg/configs"
	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/storage"
	"github.com/yeisme/archivault/pkg/log"
	"github.com/yeisme/archivault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:00 清扫超期未响应的流转请求
//   - 每小时 15 分刷新仪表盘统计缓存
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:00 清扫超期未响应的流转
	_ = sched.AddCron(JobTransferStaleSweep, CronTransferStaleSweep, func(ctx context.Context) {
		runTransferStaleSweep(ctx)
	}, baseCtx)

	// 每小时刷新仪表盘统计缓存
	_ = sched.AddCron(JobStatsRefresh, CronStatsRefresh, func(ctx context.Context) {
		runStatsRefresh(ctx)
	}, baseCtx)

	return nil
}

// runTransferStaleSweep 将超过保留天数仍为 pending 的流转请求标记为失败，并通知发起方。
func runTransferStaleSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobTransferStaleSweep).Logger()

	days := configs.GetConfig().Archive.StaleTransferDays
	before := time.Now().AddDate(0, 0, -days)

	svc := service.NewTransferService(ctx)

	n, err := svc.SweepStale(ctx, before)
	if err != nil {
		l.Error().Err(err).Msg("sweep stale transfers failed")
		return
	}

	if n > 0 {
		l.Info().Int64("affected", n).Time("before", before).Msg("swept stale transfers")
	}
}

// runStatsRefresh 重新计算仪表盘统计并写入 KV 缓存。
func runStatsRefresh(ctx context.Context) {
	l := log.Logger().With().Str("job", JobStatsRefresh).Logger()

	svc := service.NewStatsService(ctx)
	if _, err := svc.RefreshDashboard(ctx); err != nil {
		l.Error().Err(err).Msg("refresh dashboard stats failed")
		return
	}

	l.Debug().Msg("dashboard stats refreshed")
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/types"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// StatsService 仪表盘统计（基于 DB 聚合，结果走 KV 缓存）。
type StatsService struct{ *Service }

func NewStatsService(c context.Context) *StatsService { return &StatsService{newService(c)} }

const (
	statsDashboardKey = "stats:dashboard"
	statsCacheTTL     = 5 * time.Minute
	trendDays         = 14
	hoursPerDay       = 24
)

// 通用聚合结果行。
type aggRow struct {
	Key string `gorm:"column:k"`
	Cnt int64  `gorm:"column:cnt"`
}

// Dashboard 返回仪表盘统计，优先读缓存，未命中时现算并回填。
func (s *StatsService) Dashboard(ctx context.Context) (*types.DashboardStats, error) {
	if s.kvClient != nil {
		if data, err := s.kvClient.Get(ctx, statsDashboardKey); err == nil {
			var cached types.DashboardStats
			if err := sonic.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	return s.RefreshDashboard(ctx)
}

// RefreshDashboard 重新计算仪表盘统计并写入缓存，定时任务与缓存未命中时调用。
func (s *StatsService) RefreshDashboard(ctx context.Context) (*types.DashboardStats, error) {
	dbx := s.dbx(ctx)
	stats := &types.DashboardStats{}

	if err := dbx.Model(&model.File{}).Count(&stats.TotalFiles).Error; err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	if err := dbx.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if err := dbx.Model(&model.Department{}).Count(&stats.TotalDepartments).Error; err != nil {
		return nil, fmt.Errorf("count departments: %w", err)
	}

	if err := dbx.Model(&model.Transaction{}).
		Where("type = ? AND status = ?", model.TxSend, model.StatusPending).
		Count(&stats.PendingTransfers).Error; err != nil {
		return nil, fmt.Errorf("count pending transfers: %w", err)
	}

	// 按 content_type 聚合文件；空类型归入 other
	var fileRows []aggRow
	if err := dbx.Model(&model.File{}).
		Select("COALESCE(NULLIF(content_type, ''), 'other') AS k, COUNT(*) AS cnt").
		Group("k").
		Order("cnt DESC").
		Scan(&fileRows).Error; err != nil {
		return nil, fmt.Errorf("aggregate files by type: %w", err)
	}

	for _, r := range fileRows {
		stats.FilesByType = append(stats.FilesByType, types.StatsTypeItem{Type: r.Key, Count: r.Cnt})
	}

	// 按事务类型聚合账本
	var txRows []aggRow
	if err := dbx.Model(&model.Transaction{}).
		Select("type AS k, COUNT(*) AS cnt").
		Group("k").
		Order("cnt DESC").
		Scan(&txRows).Error; err != nil {
		return nil, fmt.Errorf("aggregate transactions by type: %w", err)
	}

	for _, r := range txRows {
		stats.TxByType = append(stats.TxByType, types.StatsTypeItem{Type: r.Key, Count: r.Cnt})
	}

	// 最近 N 天的账本活动趋势
	since := time.Now().Add(-trendDays * hoursPerDay * time.Hour).Truncate(hoursPerDay * time.Hour)

	var trendRows []aggRow
	if err := dbx.Model(&model.Transaction{}).
		Select("DATE(created_at) AS k, COUNT(*) AS cnt").
		Where("created_at >= ?", since).
		Group("k").
		Order("k ASC").
		Scan(&trendRows).Error; err != nil {
		return nil, fmt.Errorf("aggregate activity trend: %w", err)
	}

	for _, r := range trendRows {
		stats.RecentActivity = append(stats.RecentActivity, types.TrendPoint{Date: r.Key, Count: r.Cnt})
	}

	s.cache(ctx, stats)

	return stats, nil
}

func (s *StatsService) cache(ctx context.Context, stats *types.DashboardStats) {
	if s.kvClient == nil {
		return
	}

	data, err := sonic.Marshal(stats)
	if err != nil {
		return
	}

	if err := s.kvClient.Set(ctx, statsDashboardKey, data, statsCacheTTL); err != nil {
		nlog.Logger().Warn().Err(err).Msg("cache dashboard stats failed")
	}
}

package service_test

import (
	"testing"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/types"
)

// TestDashboardStats 基本口径：文件/用户/部门总数与待处理流转数.
func TestDashboardStats(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "alice", dept.ID)
	recipient := seedUser(t, ctx, "bob", dept.ID)
	file := seedFile(t, ctx, "a.pdf", owner.ID, dept.ID, nil, nil)

	if _, err := service.NewTransferService(ctx).Send(ctx, owner.ID, &types.SendTransferRequest{
		FileID:       file.ID,
		RecipientIDs: []uint{recipient.ID},
	}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	svc := service.NewStatsService(ctx)

	stats, err := svc.RefreshDashboard(ctx)
	if err != nil {
		t.Fatalf("RefreshDashboard: %v", err)
	}

	if stats.TotalFiles != 1 || stats.TotalUsers != 2 || stats.TotalDepartments != 1 {
		t.Fatalf("totals = %d/%d/%d, want 1/2/1", stats.TotalFiles, stats.TotalUsers, stats.TotalDepartments)
	}

	if stats.PendingTransfers != 1 {
		t.Fatalf("pending transfers = %d, want 1", stats.PendingTransfers)
	}

	if len(stats.TxByType) == 0 {
		t.Fatal("tx type aggregation is empty")
	}

	// 缓存命中路径返回同样的结果
	cached, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if cached.TotalFiles != stats.TotalFiles || cached.PendingTransfers != stats.PendingTransfers {
		t.Fatalf("cached stats diverge: %+v vs %+v", cached, stats)
	}
}

package service_test

import (
	"errors"
	"testing"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/types"
)

// TestRegisterFile 登记档案会同时落一条 upload 账本行.
func TestRegisterFile(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "alice", dept.ID)

	svc := service.NewFileService(ctx)

	resp, err := svc.Register(ctx, owner.ID, &types.RegisterFileRequest{
		Name:         "charter.pdf",
		DepartmentID: dept.ID,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.FileID == 0 {
		t.Fatal("Register returned zero file id")
	}

	var row model.Transaction
	if err := testDB(t, ctx).
		Where("file_id = ? AND type = ?", resp.FileID, model.TxUpload).
		First(&row).Error; err != nil {
		t.Fatalf("upload ledger row missing: %v", err)
	}

	if row.Status != model.StatusCompleted {
		t.Fatalf("upload row status = %q, want completed", row.Status)
	}
}

// TestRelocateFile 调整位置更新 LocationID、落 relocation 行并返回新路径.
func TestRelocateFile(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "bob", dept.ID)
	locA := seedLocation(t, ctx, "101", "", "", "", "")
	locB := seedLocation(t, ctx, "202", "C3", "", "", "")
	file := seedFile(t, ctx, "deed.pdf", owner.ID, dept.ID, nil, &locA.ID)

	svc := service.NewFileService(ctx)

	resp, err := svc.Relocate(ctx, owner.ID, file.ID, locB.ID)
	if err != nil {
		t.Fatalf("Relocate: %v", err)
	}

	if resp.LocationPath != "CoE → 202 → C3" {
		t.Fatalf("location path = %q, want CoE → 202 → C3", resp.LocationPath)
	}

	var count int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("file_id = ? AND type = ?", file.ID, model.TxRelocation).
		Count(&count).Error; err != nil {
		t.Fatalf("count relocation rows: %v", err)
	}

	if count != 1 {
		t.Fatalf("relocation rows = %d, want 1", count)
	}

	// 非属主不能调整位置
	stranger := seedUser(t, ctx, "mallory", dept.ID)
	if _, err := svc.Relocate(ctx, stranger.ID, file.ID, locA.ID); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

// TestScanFile 扫码返回当前位置路径并落 scan 行；无效码报 NotFound.
func TestScanFile(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "carol", dept.ID)
	loc := seedLocation(t, ctx, "305", "", "", "", "9")
	file := seedFile(t, ctx, "minutes.pdf", owner.ID, dept.ID, nil, &loc.ID)

	svc := service.NewFileService(ctx)

	resp, err := svc.Scan(ctx, owner.ID, file.ID)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if resp.LocationPath != "CoE → 305 → 9" {
		t.Fatalf("location path = %q, want CoE → 305 → 9", resp.LocationPath)
	}

	var count int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("file_id = ? AND type = ?", file.ID, model.TxScan).
		Count(&count).Error; err != nil {
		t.Fatalf("count scan rows: %v", err)
	}

	if count != 1 {
		t.Fatalf("scan rows = %d, want 1", count)
	}

	if _, err := svc.Scan(ctx, owner.ID, 777777); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestDigitalAccessNoCopy 纯纸质档案请求电子副本报 ErrNoDigitalCopy.
func TestDigitalAccessNoCopy(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "dave", dept.ID)
	file := seedFile(t, ctx, "paper-only.pdf", owner.ID, dept.ID, nil, nil)

	svc := service.NewFileService(ctx)

	if _, err := svc.DigitalAccess(ctx, owner.ID, file.ID, 0); !errors.Is(err, service.ErrNoDigitalCopy) {
		t.Fatalf("err = %v, want ErrNoDigitalCopy", err)
	}
}

// TestPhysicalRequest 调阅申请写 physical_request 行并给属主发通知，共享 ActionID.
func TestPhysicalRequest(t *testing.T) {
	ctx := newTestContext(t)

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "erin", dept.ID)
	requester := seedUser(t, ctx, "frank", dept.ID)
	file := seedFile(t, ctx, "blueprint.pdf", owner.ID, dept.ID, nil, nil)

	svc := service.NewFileService(ctx)

	resp, err := svc.PhysicalRequest(ctx, requester.ID, file.ID)
	if err != nil {
		t.Fatalf("PhysicalRequest: %v", err)
	}

	var rows []model.Transaction
	if err := testDB(t, ctx).Where("action_id = ?", resp.ActionID).Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("load action rows: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("action rows = %d, want request + notification", len(rows))
	}

	if rows[0].Type != model.TxPhysicalRequest || *rows[0].UserID != requester.ID {
		t.Fatalf("first row = %s for user %v, want physical_request by requester", rows[0].Type, rows[0].UserID)
	}

	if rows[1].Type != model.TxNotification || *rows[1].UserID != owner.ID {
		t.Fatalf("second row = %s for user %v, want notification to owner", rows[1].Type, rows[1].UserID)
	}
}

package service_test

import (
	"testing"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
)

// TestFullLocationPathComposition 部门路径与非空物理字段按序拼接，空段省略.
func TestFullLocationPathComposition(t *testing.T) {
	ctx := newTestContext(t)

	coe := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	bsit := seedDepartment(t, ctx, "BSIT", model.DepartmentSub, &coe.ID)

	// cabinet 与 box 留空
	loc := seedLocation(t, ctx, "201", "", "2", "", "5")

	owner := seedUser(t, ctx, "alice", coe.ID)
	file := seedFile(t, ctx, "thesis.pdf", owner.ID, coe.ID, &bsit.ID, &loc.ID)

	svc := service.NewLocationService(ctx)

	got, err := svc.FullLocationPath(ctx, file.ID)
	if err != nil {
		t.Fatalf("FullLocationPath: %v", err)
	}

	if got == nil {
		t.Fatal("FullLocationPath returned nil for existing file")
	}

	want := "CoE → BSIT → 201 → 2 → 5"
	if got.Path != want {
		t.Fatalf("path = %q, want %q", got.Path, want)
	}

	// 六键明细：未知项为 nil，已知项保留
	if got.Details.Cabinet != nil || got.Details.Box != nil {
		t.Fatalf("empty segments must be nil in details, got %+v", got.Details)
	}

	if got.Details.Room == nil || *got.Details.Room != "201" {
		t.Fatalf("room detail = %v, want 201", got.Details.Room)
	}

	if got.Details.Department == nil || *got.Details.Department != "CoE → BSIT" {
		t.Fatalf("department detail = %v, want CoE → BSIT", got.Details.Department)
	}
}

// TestFullLocationPathMissingFile 文件不存在返回 nil 而非错误.
func TestFullLocationPathMissingFile(t *testing.T) {
	ctx := newTestContext(t)

	svc := service.NewLocationService(ctx)

	got, err := svc.FullLocationPath(ctx, 424242)
	if err != nil {
		t.Fatalf("FullLocationPath: %v", err)
	}

	if got != nil {
		t.Fatalf("expected nil for missing file, got %+v", got)
	}
}

// TestFullLocationPathNoPhysicalSlot 没有物理位置时仅展示部门路径.
func TestFullLocationPathNoPhysicalSlot(t *testing.T) {
	ctx := newTestContext(t)

	coe := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	owner := seedUser(t, ctx, "bob", coe.ID)
	file := seedFile(t, ctx, "memo.docx", owner.ID, coe.ID, nil, nil)

	svc := service.NewLocationService(ctx)

	got, err := svc.FullLocationPath(ctx, file.ID)
	if err != nil {
		t.Fatalf("FullLocationPath: %v", err)
	}

	if got == nil || got.Path != "CoE" {
		t.Fatalf("path = %+v, want CoE", got)
	}
}

// TestLocationCacheInvalidation 缓存命中后失效，下次解析反映新位置.
func TestLocationCacheInvalidation(t *testing.T) {
	ctx := newTestContext(t)

	coe := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	locA := seedLocation(t, ctx, "101", "", "", "", "")
	locB := seedLocation(t, ctx, "202", "", "", "", "")

	owner := seedUser(t, ctx, "carol", coe.ID)
	file := seedFile(t, ctx, "ledger.xlsx", owner.ID, coe.ID, nil, &locA.ID)

	svc := service.NewLocationService(ctx)

	first, err := svc.FullLocationPath(ctx, file.ID)
	if err != nil || first == nil {
		t.Fatalf("first resolve: %v, %v", first, err)
	}

	// 改位置但不失效缓存：命中旧值
	if err := testDB(t, ctx).Model(file).Update("location_id", locB.ID).Error; err != nil {
		t.Fatalf("update location: %v", err)
	}

	stale, err := svc.FullLocationPath(ctx, file.ID)
	if err != nil {
		t.Fatalf("stale resolve: %v", err)
	}

	if stale.Path != first.Path {
		t.Fatalf("expected cached path %q, got %q", first.Path, stale.Path)
	}

	svc.InvalidateLocation(ctx, file.ID)

	fresh, err := svc.FullLocationPath(ctx, file.ID)
	if err != nil {
		t.Fatalf("fresh resolve: %v", err)
	}

	if fresh.Path != "CoE → 202" {
		t.Fatalf("path after invalidation = %q, want CoE → 202", fresh.Path)
	}
}

package service_test

import (
	"reflect"
	"testing"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
)

// TestResolveAncestorPathOrdering 子部门起步的父链解析返回根到叶的顺序.
func TestResolveAncestorPathOrdering(t *testing.T) {
	ctx := newTestContext(t)

	dept1 := seedDepartment(t, ctx, "Dept1", model.DepartmentCollege, nil)
	dept2 := seedDepartment(t, ctx, "Dept2", model.DepartmentOffice, &dept1.ID)
	sub := seedDepartment(t, ctx, "Sub", model.DepartmentSub, &dept2.ID)

	svc := service.NewDepartmentService(ctx)

	got := svc.ResolveAncestorPath(ctx, dept1.ID, &sub.ID)

	want := []string{"Dept1", "Dept2", "Sub"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
}

// TestResolveAncestorPathNoSub 无子部门时从主部门起步.
func TestResolveAncestorPathNoSub(t *testing.T) {
	ctx := newTestContext(t)

	root := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	office := seedDepartment(t, ctx, "Registrar", model.DepartmentOffice, &root.ID)

	svc := service.NewDepartmentService(ctx)

	got := svc.ResolveAncestorPath(ctx, office.ID, nil)

	want := []string{"CoE", "Registrar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
}

// TestResolveAncestorPathMissingSub 子部门记录缺失时退回主部门.
func TestResolveAncestorPathMissingSub(t *testing.T) {
	ctx := newTestContext(t)

	root := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)

	svc := service.NewDepartmentService(ctx)

	missing := uintPtr(9999)

	got := svc.ResolveAncestorPath(ctx, root.ID, missing)

	want := []string{"CoE"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
}

// TestResolveAncestorPathBrokenChain 父记录缺失时静默截断，返回部分路径.
func TestResolveAncestorPathBrokenChain(t *testing.T) {
	ctx := newTestContext(t)

	ghost := uintPtr(12345)
	orphan := seedDepartment(t, ctx, "Orphan", model.DepartmentSub, ghost)

	svc := service.NewDepartmentService(ctx)

	got := svc.ResolveAncestorPath(ctx, 0, &orphan.ID)

	want := []string{"Orphan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
}

// TestResolveAncestorPathCycle 成环的父链必须在跳数上限内终止且不报错.
func TestResolveAncestorPathCycle(t *testing.T) {
	ctx := newTestContext(t)

	a := seedDepartment(t, ctx, "A", model.DepartmentOffice, nil)
	b := seedDepartment(t, ctx, "B", model.DepartmentSub, &a.ID)

	// 人为制造 A→B→A 的环
	if err := testDB(t, ctx).Model(a).Update("parent_id", b.ID).Error; err != nil {
		t.Fatalf("corrupt parent chain: %v", err)
	}

	svc := service.NewDepartmentService(ctx)

	got := svc.ResolveAncestorPath(ctx, b.ID, nil)

	// 每个节点至多访问一次，环在第二次触及 B 前被截断
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
}

package service_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/archivault/pkg/configs"
	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/storage"
	dbc "github.com/yeisme/archivault/pkg/internal/storage/db"
	kvc "github.com/yeisme/archivault/pkg/internal/storage/kv"
)

// newTestContext 建立内存 SQLite 并迁移表结构，返回带 Manager 的 context.
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}

	// 内存库的多个连接互不相通，收紧到单连接
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(
		&model.Department{},
		&model.StorageLocation{},
		&model.User{},
		&model.File{},
		&model.Transaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mgr := &storage.Manager{DB: &dbc.Client{DB: gdb}}

	kvi, err := kvc.NewKVClient(context.Background())
	if err == nil {
		mgr.KV = kvi
	}

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

// testDB 从 context 取回 gorm 句柄，便于测试断言.
func testDB(t *testing.T, ctx context.Context) *gorm.DB {
	t.Helper()

	cli := ctxPkg.GetDBClient(ctx)
	if cli == nil {
		t.Fatal("db client missing from context")
	}

	return cli.GetDB()
}

func seedDepartment(t *testing.T, ctx context.Context, name string, typ model.DepartmentType, parentID *uint) *model.Department {
	t.Helper()

	dept := &model.Department{Name: name, Type: typ, ParentID: parentID}
	if err := testDB(t, ctx).Create(dept).Error; err != nil {
		t.Fatalf("seed department %s: %v", name, err)
	}

	return dept
}

func seedUser(t *testing.T, ctx context.Context, name string, deptID uint) *model.User {
	t.Helper()

	user := &model.User{Name: name, Email: name + "@example.com", DepartmentID: deptID}
	if err := testDB(t, ctx).Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}

	return user
}

func seedFile(t *testing.T, ctx context.Context, name string, ownerID, deptID uint, subDeptID, locID *uint) *model.File {
	t.Helper()

	file := &model.File{
		Name:            name,
		OwnerID:         ownerID,
		DepartmentID:    deptID,
		SubDepartmentID: subDeptID,
		LocationID:      locID,
		Status:          model.FileStatusActive,
	}
	if err := testDB(t, ctx).Create(file).Error; err != nil {
		t.Fatalf("seed file %s: %v", name, err)
	}

	return file
}

func seedLocation(t *testing.T, ctx context.Context, room, cabinet, layer, box, folder string) *model.StorageLocation {
	t.Helper()

	loc := &model.StorageLocation{Room: room, Cabinet: cabinet, Layer: layer, Box: box, Folder: folder}
	if err := testDB(t, ctx).Create(loc).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}

	return loc
}

func uintPtr(v uint) *uint { return &v }

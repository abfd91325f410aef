package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
)

// TestLedgerAppendServerClock 时间戳由账本以服务器时钟赋值，调用方传入的时间被覆盖.
func TestLedgerAppendServerClock(t *testing.T) {
	ctx := newTestContext(t)

	svc := service.NewLedgerService(ctx)

	forged := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &model.Transaction{
		Type:        model.TxLogin,
		Status:      model.StatusCompleted,
		Description: "user logged in",
		CreatedAt:   forged,
	}

	id, err := svc.Append(ctx, row)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if id == 0 {
		t.Fatal("Append returned zero id")
	}

	var stored model.Transaction
	if err := testDB(t, ctx).First(&stored, id).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}

	if stored.CreatedAt.Year() == 1999 {
		t.Fatal("caller-supplied timestamp was persisted")
	}

	if stored.ActionID == "" {
		t.Fatal("ActionID was not assigned")
	}
}

// TestLedgerAppendUnknownType 词表之外的类型被拒绝.
func TestLedgerAppendUnknownType(t *testing.T) {
	ctx := newTestContext(t)

	svc := service.NewLedgerService(ctx)

	row := &model.Transaction{Type: "file_sent", Status: model.StatusPending}

	if _, err := svc.Append(ctx, row); !errors.Is(err, service.ErrUnknownTxType) {
		t.Fatalf("err = %v, want ErrUnknownTxType", err)
	}
}

// TestLedgerFanOutAtomicity 批量写入中任何一行失败则整批回滚，不留部分行.
func TestLedgerFanOutAtomicity(t *testing.T) {
	ctx := newTestContext(t)

	svc := service.NewLedgerService(ctx)

	rows := []*model.Transaction{
		{Type: model.TxSend, Status: model.StatusPending, Description: "recipient 1"},
		{Type: model.TxSend, Status: model.StatusPending, Description: "recipient 2"},
		// 第三行使用非法类型，触发批次中途失败
		{Type: "bogus", Status: model.StatusPending, Description: "recipient 3"},
	}

	if err := svc.AppendAll(ctx, rows); err == nil {
		t.Fatal("AppendAll succeeded with an invalid row")
	}

	var count int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	if count != 0 {
		t.Fatalf("ledger contains %d rows after rollback, want 0", count)
	}
}

// TestLedgerSharedActionID 同一批未设 ActionID 的行分得同一个 ActionID.
func TestLedgerSharedActionID(t *testing.T) {
	ctx := newTestContext(t)

	svc := service.NewLedgerService(ctx)

	rows := []*model.Transaction{
		{Type: model.TxPhysicalRequest, Status: model.StatusPending},
		{Type: model.TxNotification, Status: model.StatusPending},
	}

	if err := svc.AppendAll(ctx, rows); err != nil {
		t.Fatalf("AppendAll: %v", err)
	}

	if rows[0].ActionID == "" || rows[0].ActionID != rows[1].ActionID {
		t.Fatalf("rows of one action must share an ActionID, got %q and %q",
			rows[0].ActionID, rows[1].ActionID)
	}
}

// TestNewActionIDUnique 连续生成的 ActionID 互不相同.
func TestNewActionIDUnique(t *testing.T) {
	seen := map[string]struct{}{}

	for range 100 {
		id := service.NewActionID()
		if len(id) != 26 {
			t.Fatalf("ActionID %q is not a 26-char ULID", id)
		}

		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ActionID %q", id)
		}

		seen[id] = struct{}{}
	}
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/types"
)

// transferFixture 准备一次典型流转：owner 把文件发给 recipient.
func transferFixture(t *testing.T, ctx context.Context) (owner, recipient *model.User, file *model.File) {
	t.Helper()

	dept := seedDepartment(t, ctx, "CoE", model.DepartmentCollege, nil)
	other := seedDepartment(t, ctx, "Registrar", model.DepartmentOffice, nil)

	owner = seedUser(t, ctx, "alice", dept.ID)
	recipient = seedUser(t, ctx, "bob", other.ID)
	file = seedFile(t, ctx, "contract.pdf", owner.ID, dept.ID, nil, nil)

	return owner, recipient, file
}

// TestTransferSendFanOut 每个收件人得到共享 ActionID 的 send 行与 notification 行.
func TestTransferSendFanOut(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)
	third := seedUser(t, ctx, "carol", recipient.DepartmentID)

	svc := service.NewTransferService(ctx)

	resp, err := svc.Send(ctx, owner.ID, &types.SendTransferRequest{
		FileID:       file.ID,
		RecipientIDs: []uint{recipient.ID, third.ID},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}

	for _, r := range resp.Results {
		var rows []model.Transaction
		if err := testDB(t, ctx).Where("action_id = ?", r.ActionID).Order("id").Find(&rows).Error; err != nil {
			t.Fatalf("load action rows: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("action %s has %d rows, want send + notification", r.ActionID, len(rows))
		}

		if rows[0].Type != model.TxSend || rows[0].Status != model.StatusPending {
			t.Fatalf("first row = %s/%s, want send/pending", rows[0].Type, rows[0].Status)
		}

		if rows[1].Type != model.TxNotification || rows[1].Status != model.StatusPending {
			t.Fatalf("second row = %s/%s, want notification/pending", rows[1].Type, rows[1].Status)
		}
	}
}

// TestTransferSendAtomicity 任一收件人无效则整个扇出回滚.
func TestTransferSendAtomicity(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)

	_, err := svc.Send(ctx, owner.ID, &types.SendTransferRequest{
		FileID:       file.ID,
		RecipientIDs: []uint{recipient.ID, 99999},
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var count int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	if count != 0 {
		t.Fatalf("ledger has %d rows after failed fan-out, want 0", count)
	}
}

// TestTransferSendAuthorization 非属主不能发起流转，文件不存在报 NotFound.
func TestTransferSendAuthorization(t *testing.T) {
	ctx := newTestContext(t)

	_, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)

	_, err := svc.Send(ctx, recipient.ID, &types.SendTransferRequest{
		FileID:       file.ID,
		RecipientIDs: []uint{recipient.ID},
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	_, err = svc.Send(ctx, recipient.ID, &types.SendTransferRequest{
		FileID:       987654,
		RecipientIDs: []uint{recipient.ID},
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// sendOne 发起单收件人流转并返回 send 行 ID 与 ActionID.
func sendOne(t *testing.T, ctx context.Context, svc *service.TransferService, ownerID, recipientID, fileID uint) (uint, string) {
	t.Helper()

	resp, err := svc.Send(ctx, ownerID, &types.SendTransferRequest{
		FileID:       fileID,
		RecipientIDs: []uint{recipientID},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	return resp.Results[0].TransactionID, resp.Results[0].ActionID
}

// TestTransferRespondAccept 接受流转：双行状态迁移 + 唯一一条 co_ownership + 发起方通知.
func TestTransferRespondAccept(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)
	txID, actionID := sendOne(t, ctx, svc, owner.ID, recipient.ID, file.ID)

	resp, err := svc.Respond(ctx, txID, recipient.ID, service.DecisionAccept)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if resp.Status != string(model.StatusAccepted) {
		t.Fatalf("status = %q, want accepted", resp.Status)
	}

	var sendRow model.Transaction
	if err := testDB(t, ctx).First(&sendRow, txID).Error; err != nil {
		t.Fatalf("load send row: %v", err)
	}

	if sendRow.Status != model.StatusAccepted {
		t.Fatalf("send row status = %q, want accepted", sendRow.Status)
	}

	var notify model.Transaction
	if err := testDB(t, ctx).
		Where("action_id = ? AND type = ? AND user_id = ?", actionID, model.TxNotification, recipient.ID).
		First(&notify).Error; err != nil {
		t.Fatalf("load notification row: %v", err)
	}

	if notify.Status != model.StatusAccepted {
		t.Fatalf("notification status = %q, want accepted", notify.Status)
	}

	var coCount int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("type = ? AND file_id = ? AND user_id = ?", model.TxCoOwnership, file.ID, recipient.ID).
		Count(&coCount).Error; err != nil {
		t.Fatalf("count co-ownership: %v", err)
	}

	if coCount != 1 {
		t.Fatalf("co-ownership rows = %d, want exactly 1", coCount)
	}

	var senderNotify int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("type = ? AND user_id = ? AND status = ?", model.TxNotification, owner.ID, model.StatusPending).
		Count(&senderNotify).Error; err != nil {
		t.Fatalf("count sender notifications: %v", err)
	}

	if senderNotify != 1 {
		t.Fatalf("sender notifications = %d, want 1", senderNotify)
	}
}

// TestTransferRespondAtMostOnce 第二次响应同一行收到 NotFound，不产生第二条 co_ownership.
func TestTransferRespondAtMostOnce(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)
	txID, _ := sendOne(t, ctx, svc, owner.ID, recipient.ID, file.ID)

	if _, err := svc.Respond(ctx, txID, recipient.ID, service.DecisionAccept); err != nil {
		t.Fatalf("first respond: %v", err)
	}

	if _, err := svc.Respond(ctx, txID, recipient.ID, service.DecisionAccept); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("replayed respond err = %v, want ErrNotFound", err)
	}

	var coCount int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("type = ?", model.TxCoOwnership).
		Count(&coCount).Error; err != nil {
		t.Fatalf("count co-ownership: %v", err)
	}

	if coCount != 1 {
		t.Fatalf("co-ownership rows = %d after replay, want 1", coCount)
	}
}

// TestTransferRespondDeny 拒绝流转不授予共有权.
func TestTransferRespondDeny(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)
	txID, _ := sendOne(t, ctx, svc, owner.ID, recipient.ID, file.ID)

	resp, err := svc.Respond(ctx, txID, recipient.ID, service.DecisionDeny)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if resp.Status != string(model.StatusDenied) {
		t.Fatalf("status = %q, want denied", resp.Status)
	}

	var coCount int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("type = ?", model.TxCoOwnership).
		Count(&coCount).Error; err != nil {
		t.Fatalf("count co-ownership: %v", err)
	}

	if coCount != 0 {
		t.Fatalf("deny must not grant co-ownership, got %d rows", coCount)
	}
}

// TestTransferRespondScope 无关用户响应他人的流转收到 NotFound.
func TestTransferRespondScope(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)
	stranger := seedUser(t, ctx, "mallory", owner.DepartmentID)

	svc := service.NewTransferService(ctx)
	txID, _ := sendOne(t, ctx, svc, owner.ID, recipient.ID, file.ID)

	if _, err := svc.Respond(ctx, txID, stranger.ID, service.DecisionAccept); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// 原行保持 pending，真正的收件人仍可处理
	var sendRow model.Transaction
	if err := testDB(t, ctx).First(&sendRow, txID).Error; err != nil {
		t.Fatalf("load send row: %v", err)
	}

	if sendRow.Status != model.StatusPending {
		t.Fatalf("send row status = %q, want pending", sendRow.Status)
	}
}

// TestTransferSweepStale 超期 pending 的 send 行被标记 failed 并留下 fetch_status 记录.
func TestTransferSweepStale(t *testing.T) {
	ctx := newTestContext(t)

	owner, recipient, file := transferFixture(t, ctx)

	svc := service.NewTransferService(ctx)
	txID, _ := sendOne(t, ctx, svc, owner.ID, recipient.ID, file.ID)

	// 把行伪造成一年前发出的
	old := time.Now().AddDate(-1, 0, 0)
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("id = ?", txID).
		Update("created_at", old).Error; err != nil {
		t.Fatalf("age send row: %v", err)
	}

	swept, err := svc.SweepStale(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("SweepStale: %v", err)
	}

	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	var sendRow model.Transaction
	if err := testDB(t, ctx).First(&sendRow, txID).Error; err != nil {
		t.Fatalf("load send row: %v", err)
	}

	if sendRow.Status != model.StatusFailed {
		t.Fatalf("send row status = %q, want failed", sendRow.Status)
	}

	var marks int64
	if err := testDB(t, ctx).Model(&model.Transaction{}).
		Where("type = ?", model.TxFetchStatus).
		Count(&marks).Error; err != nil {
		t.Fatalf("count fetch_status rows: %v", err)
	}

	if marks != 1 {
		t.Fatalf("fetch_status rows = %d, want 1", marks)
	}

	// 关联的通知行一并失效，不再计入未读
	var notifyRow model.Transaction
	if err := testDB(t, ctx).
		Where("action_id = ? AND type = ?", sendRow.ActionID, model.TxNotification).
		First(&notifyRow).Error; err != nil {
		t.Fatalf("load notification row: %v", err)
	}

	if notifyRow.Status != model.StatusFailed {
		t.Fatalf("notification row status = %q, want failed", notifyRow.Status)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/types"
	nlog "github.com/yeisme/archivault/pkg/log"
	"github.com/yeisme/archivault/pkg/metrics"
	"github.com/yeisme/archivault/pkg/queue"
)

// TransferService 档案流转状态机：sent(pending) → accepted / denied，终态不再迁移.
type TransferService struct{ *Service }

func NewTransferService(c context.Context) *TransferService {
	return &TransferService{newService(c)}
}

// 裁决词表.
const (
	DecisionAccept = "accept"
	DecisionDeny   = "deny"
)

// Send 发起流转：给每个收件人写一条 send/pending 和一条 notification/pending，
// 两行共享一个 ActionID，全部收件人的行在同一事务内写入（全有或全无）.
//
// 文件不存在返回 ErrNotFound，发起人不是文件属主返回 ErrUnauthorized.
func (s *TransferService) Send(ctx context.Context, fromUserID uint, req *types.SendTransferRequest) (*types.SendTransferResponse, error) {
	var file model.File
	if err := s.dbx(ctx).First(&file, req.FileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", req.FileID, err)
	}

	if file.OwnerID != fromUserID {
		return nil, ErrUnauthorized
	}

	resp := &types.SendTransferResponse{FileID: file.ID}
	actionIDs := make([]string, 0, len(req.RecipientIDs))

	var sendRows []*model.Transaction

	err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rid := range req.RecipientIDs {
			var recipient model.User
			if err := tx.First(&recipient, rid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: recipient %d", ErrNotFound, rid)
				}

				return err
			}

			actionID := NewActionID()
			desc := req.Description

			if desc == "" {
				desc = fmt.Sprintf("File %q sent to %s", file.Name, recipient.Name)
			}

			sendRow := &model.Transaction{
				UserID:            &recipient.ID,
				FileID:            &file.ID,
				UsersDepartmentID: &recipient.DepartmentID,
				Type:              model.TxSend,
				Status:            model.StatusPending,
				ActionID:          actionID,
				ActionKind:        model.ActionSent,
				Description:       desc,
			}
			notifyRow := &model.Transaction{
				UserID:      &recipient.ID,
				FileID:      &file.ID,
				Type:        model.TxNotification,
				Status:      model.StatusPending,
				ActionID:    actionID,
				ActionKind:  model.ActionReceived,
				Description: fmt.Sprintf("You received file %q", file.Name),
			}

			if err := AppendAllTx(tx, []*model.Transaction{sendRow, notifyRow}); err != nil {
				return err
			}

			sendRows = append(sendRows, sendRow)
			actionIDs = append(actionIDs, actionID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, row := range sendRows {
		metrics.LedgerAppendCounter.WithLabelValues(string(model.TxSend)).Inc()
		metrics.LedgerAppendCounter.WithLabelValues(string(model.TxNotification)).Inc()

		resp.Results = append(resp.Results, types.TransferSentItem{
			RecipientID:   req.RecipientIDs[i],
			TransactionID: row.ID,
			ActionID:      row.ActionID,
		})
	}

	s.publishSent(ctx, actionIDs, file.ID, fromUserID, req.RecipientIDs)

	return resp, nil
}

// Respond 对一条待处理的流转做出裁决.
//
// 五步在同一事务内完成：定位 pending 的 send 行（按操作人或其部门圈定）、
// 迁移其状态、同步关联的 notification 行、accept 时追加 co_ownership/completed 行、
// 给发起方追加裁决通知。任何一步失败整体回滚，原行保持 pending 可重试.
//
// 状态迁移用条件更新（WHERE status='pending'）实现：并发双击时只有一个
// 调用方能改到行，落败方 RowsAffected 为零，收到 ErrNotFound——恰好一次语义.
func (s *TransferService) Respond(ctx context.Context, transactionID, actingUserID uint, decision string) (*types.RespondTransferResponse, error) {
	var target model.TxStatus

	switch decision {
	case DecisionAccept:
		target = model.StatusAccepted
	case DecisionDeny:
		target = model.StatusDenied
	default:
		return nil, fmt.Errorf("invalid decision %q", decision)
	}

	var actor model.User
	if err := s.dbx(ctx).First(&actor, actingUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("load user %d: %w", actingUserID, err)
	}

	var (
		sendRow model.Transaction
		file    model.File
	)

	err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 定位 pending 的 send 行，范围限定在操作人本人或其部门
		err := tx.Where("id = ? AND type = ? AND status = ?", transactionID, model.TxSend, model.StatusPending).
			Where("user_id = ? OR users_department_id = ?", actor.ID, actor.DepartmentID).
			First(&sendRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return err
		}

		// 2. 条件更新迁移状态；改不到行说明已被并发方处理
		res := tx.Model(&model.Transaction{}).
			Where("id = ? AND status = ?", sendRow.ID, model.StatusPending).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		// 3. 同步关联的 notification 行
		if err := tx.Model(&model.Transaction{}).
			Where("action_id = ? AND type = ?", sendRow.ActionID, model.TxNotification).
			Update("status", target).Error; err != nil {
			return err
		}

		if sendRow.FileID == nil {
			return fmt.Errorf("send transaction %d has no file", sendRow.ID)
		}

		if err := tx.First(&file, *sendRow.FileID).Error; err != nil {
			return err
		}

		rows := make([]*model.Transaction, 0, 2)

		// 4. accept 授予常驻访问权
		if target == model.StatusAccepted {
			rows = append(rows, &model.Transaction{
				UserID:            &actor.ID,
				FileID:            sendRow.FileID,
				UsersDepartmentID: &actor.DepartmentID,
				Type:              model.TxCoOwnership,
				Status:            model.StatusCompleted,
				ActionID:          sendRow.ActionID,
				ActionKind:        model.ActionReceived,
				Description:       fmt.Sprintf("%s accepted file %q", actor.Name, file.Name),
			})
		}

		// 5. 通知发起方裁决结果
		rows = append(rows, &model.Transaction{
			UserID:      &file.OwnerID,
			FileID:      sendRow.FileID,
			Type:        model.TxNotification,
			Status:      model.StatusPending,
			ActionID:    sendRow.ActionID,
			ActionKind:  model.ActionOther,
			Description: fmt.Sprintf("%s %s your file %q", actor.Name, target, file.Name),
		})

		return AppendAllTx(tx, rows)
	})
	if err != nil {
		return nil, err
	}

	metrics.TransferDecisionCounter.WithLabelValues(decision).Inc()

	s.publishResolved(ctx, &sendRow, actor.ID, decision)

	return &types.RespondTransferResponse{
		TransactionID: sendRow.ID,
		FileID:        *sendRow.FileID,
		Status:        string(target),
	}, nil
}

// SweepStale 把早于 before 仍为 pending 的 send 行连同其关联的 notification 行
// 一并标记为 failed，并为每条写一行 fetch_status/completed 记录失效原因，定时任务调用.
func (s *TransferService) SweepStale(ctx context.Context, before time.Time) (int64, error) {
	var swept int64

	err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.Transaction
		if err := tx.Where("type = ? AND status = ? AND created_at < ?",
			model.TxSend, model.StatusPending, before).
			Find(&rows).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(rows))
		actionIDs := make([]string, 0, len(rows))

		for _, r := range rows {
			ids = append(ids, r.ID)
			actionIDs = append(actionIDs, r.ActionID)
		}

		res := tx.Model(&model.Transaction{}).
			Where("id IN ? AND status = ?", ids, model.StatusPending).
			Update("status", model.StatusFailed)
		if res.Error != nil {
			return res.Error
		}

		swept = res.RowsAffected

		// 同步关联的 notification 行，滞留的转移不再计入未读
		if err := tx.Model(&model.Transaction{}).
			Where("action_id IN ? AND type = ? AND status = ?",
				actionIDs, model.TxNotification, model.StatusPending).
			Update("status", model.StatusFailed).Error; err != nil {
			return err
		}

		marks := make([]*model.Transaction, 0, len(rows))
		for _, r := range rows {
			marks = append(marks, &model.Transaction{
				UserID:      r.UserID,
				FileID:      r.FileID,
				Type:        model.TxFetchStatus,
				Status:      model.StatusCompleted,
				ActionID:    r.ActionID,
				ActionKind:  model.ActionOther,
				Description: fmt.Sprintf("Transfer %d expired without a response", r.ID),
			})
		}

		return AppendAllTx(tx, marks)
	})
	if err != nil {
		return 0, err
	}

	return swept, nil
}

func (s *TransferService) publishSent(ctx context.Context, actionIDs []string, fileID, fromUserID uint, recipients []uint) {
	if s.mqClient == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	payload := queue.TransferSentPayload{
		ActionIDs:    actionIDs,
		FileID:       fileID,
		FromUserID:   fromUserID,
		RecipientIDs: recipients,
	}
	if err := queue.PublishTransferSent(s.mqClient.Publisher(), payload, queue.WithProducer("archivault")); err != nil {
		l.Warn().Err(err).Uint("file_id", fileID).Msg("publish transfer sent event failed")
	}
}

func (s *TransferService) publishResolved(ctx context.Context, sendRow *model.Transaction, userID uint, decision string) {
	if s.mqClient == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	payload := queue.TransferResolvedPayload{
		ActionID:      sendRow.ActionID,
		TransactionID: sendRow.ID,
		FileID:        *sendRow.FileID,
		UserID:        userID,
		Decision:      decision,
	}
	if err := queue.PublishTransferResolved(s.mqClient.Publisher(), payload, queue.WithProducer("archivault")); err != nil {
		l.Warn().Err(err).Uint("transaction_id", sendRow.ID).Msg("publish transfer resolved event failed")
	}
}

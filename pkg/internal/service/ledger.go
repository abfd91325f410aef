package service

import (
	"context"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/archivault/pkg/internal/model"
	nlog "github.com/yeisme/archivault/pkg/log"
	"github.com/yeisme/archivault/pkg/metrics"
	"github.com/yeisme/archivault/pkg/queue"
)

// LedgerService 审计账本：系统里一切改变状态的动作都经由这里落库，别无他路.
// 行一经写入不再删除；状态迁移通过更新既有行的 Status 完成.
type LedgerService struct{ *Service }

func NewLedgerService(c context.Context) *LedgerService {
	return &LedgerService{newService(c)}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mrand.New(mrand.NewSource(time.Now().UnixNano())), 0)
)

// NewActionID 生成关联同一逻辑动作多行记录的 ULID.
func NewActionID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Append 写入单行账本记录，返回其 ID.
func (s *LedgerService) Append(ctx context.Context, row *model.Transaction) (uint, error) {
	err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		return AppendAllTx(tx, []*model.Transaction{row})
	})
	if err != nil {
		return 0, err
	}

	s.afterAppend(ctx, []*model.Transaction{row})

	return row.ID, nil
}

// AppendAll 原子写入一个逻辑动作的全部账本行.
//
// 任意一行失败则全部回滚，调用方收到失败信号——"3 个收件人只通知了 2 个"这种
// 部分扇出绝不能被观察到。未设置 ActionID 的行统一分配一个新生成的 ActionID.
func (s *LedgerService) AppendAll(ctx context.Context, rows []*model.Transaction) error {
	if err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		return AppendAllTx(tx, rows)
	}); err != nil {
		return err
	}

	s.afterAppend(ctx, rows)

	return nil
}

// AppendAllTx 在既有事务中写入账本行，供需要把账本写入和业务写入捆绑在
// 同一事务里的调用方（流转、档案登记）使用.
//
// 时间戳一律以服务器时钟在写入时赋值，不接受调用方传入，保证历史视图排序可信.
func AppendAllTx(tx *gorm.DB, rows []*model.Transaction) error {
	if len(rows) == 0 {
		return nil
	}

	now := time.Now()
	shared := ""

	for _, row := range rows {
		if _, ok := model.KnownTxTypes[row.Type]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTxType, row.Type)
		}

		row.CreatedAt = now

		if row.ActionID == "" {
			if shared == "" {
				shared = NewActionID()
			}

			row.ActionID = shared
		}

		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	return nil
}

// afterAppend 提交成功后的副作用：指标与事件广播，失败只记日志不影响主流程.
func (s *LedgerService) afterAppend(ctx context.Context, rows []*model.Transaction) {
	refs := make([]queue.LedgerRowRef, 0, len(rows))

	var fileID uint

	for _, row := range rows {
		metrics.LedgerAppendCounter.WithLabelValues(string(row.Type)).Inc()

		refs = append(refs, queue.LedgerRowRef{
			TransactionID: row.ID,
			Type:          string(row.Type),
			Status:        string(row.Status),
		})

		if row.FileID != nil {
			fileID = *row.FileID
		}
	}

	if s.mqClient == nil {
		return
	}

	payload := queue.LedgerAppendedPayload{
		ActionID: rows[0].ActionID,
		Rows:     refs,
		FileID:   fileID,
	}

	if err := queue.PublishLedgerAppended(s.mqClient.Publisher(), payload, queue.WithProducer("archivault")); err != nil {
		nlog.Logger().Warn().Err(err).Str("action_id", payload.ActionID).Msg("publish ledger event failed")
	}
}

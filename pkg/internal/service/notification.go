package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/archivault/pkg/configs"
	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/types"
)

// NotificationService 从账本投影出用户通知与文件活动历史，自身不产生新事实.
type NotificationService struct{ *Service }

func NewNotificationService(c context.Context) *NotificationService {
	return &NotificationService{newService(c)}
}

// notificationRow 通知查询的联表结果行.
type notificationRow struct {
	model.Transaction
	FileName string `gorm:"column:file_name"`
}

// ListNotifications 返回用户通知，倒序分页.
//
// 仅取 type=notification 且收件人为该用户的行，联表带出文件名，
// 已软删除文件的通知不展示。markAsRead 为真时，把"本页里"处于 pending
// 的行原子翻转为 read——只动取出的这一页，绝不波及页外新通知.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, page, pageSize int, markAsRead bool) (*types.ListNotificationsResponse, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = configs.GetConfig().Archive.NotifyPageSize
	}

	var (
		rows  []notificationRow
		total int64
	)

	err := s.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(&model.Transaction{}).
			Joins("LEFT JOIN files ON files.id = transactions.file_id").
			Where("transactions.type = ? AND transactions.user_id = ?", model.TxNotification, userID).
			Where("transactions.file_id IS NULL OR files.deleted_at IS NULL")

		if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return err
		}

		if err := base.Session(&gorm.Session{}).
			Select("transactions.*, files.name AS file_name").
			Order("transactions.created_at DESC, transactions.id DESC").
			Limit(pageSize).
			Offset((page - 1) * pageSize).
			Scan(&rows).Error; err != nil {
			return err
		}

		if !markAsRead {
			return nil
		}

		ids := make([]uint, 0, len(rows))

		for i := range rows {
			if rows[i].Status == model.StatusPending {
				ids = append(ids, rows[i].ID)
				rows[i].Status = model.StatusRead
			}
		}

		if len(ids) == 0 {
			return nil
		}

		return tx.Model(&model.Transaction{}).
			Where("id IN ? AND status = ?", ids, model.StatusPending).
			Update("status", model.StatusRead).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	items := make([]types.NotificationItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, types.NotificationItem{
			ID:          r.ID,
			FileID:      r.FileID,
			FileName:    r.FileName,
			Description: r.Description,
			Status:      string(r.Status),
			CreatedAt:   r.CreatedAt,
		})
	}

	return &types.ListNotificationsResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// FileActivityHistory 返回单个文件的活动历史，最新在前，条数有上限.
func (s *NotificationService) FileActivityHistory(ctx context.Context, fileID uint) (*types.FileHistoryResponse, error) {
	var file model.File
	if err := s.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	limit := configs.GetConfig().Archive.HistoryLimit

	var rows []model.Transaction
	if err := s.dbx(ctx).
		Where("file_id = ?", fileID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history for file %d: %w", fileID, err)
	}

	items := make([]types.FileHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, types.FileHistoryItem{
			ID:          r.ID,
			Type:        string(r.Type),
			Status:      string(r.Status),
			ActionKind:  string(ClassifyAction(r.ActionKind, r.Description)),
			Description: r.Description,
			UserID:      r.UserID,
			CreatedAt:   r.CreatedAt,
		})
	}

	return &types.FileHistoryResponse{FileID: fileID, Items: items}, nil
}

// ClassifyAction 给历史行打动作标签，是一个全函数：任何输入都能得到一个标签.
//
// 新数据带落库的 ActionKind，直接采用；旧数据（kind 为空）退回到按
// description 文本分类，兜底为 other.
func ClassifyAction(kind model.ActionKind, description string) model.ActionKind {
	if kind != "" {
		return kind
	}

	desc := strings.ToLower(description)

	switch {
	case strings.Contains(desc, "sent"):
		return model.ActionSent
	case strings.Contains(desc, "received"):
		return model.ActionReceived
	case strings.Contains(desc, "cop"):
		return model.ActionCopied
	case strings.Contains(desc, "renam"):
		return model.ActionRenamed
	default:
		return model.ActionOther
	}
}

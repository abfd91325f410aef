package types

import "time"

// ListNotificationsRequest 通知列表查询参数.
type ListNotificationsRequest struct {
	Page     int `form:"page"      json:"page,omitempty"`
	PageSize int `form:"page_size" json:"page_size,omitempty"`
}

// NotificationItem 单条通知.
type NotificationItem struct {
	ID          uint      `json:"id"`
	FileID      *uint     `json:"file_id,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListNotificationsResponse 通知列表，倒序分页.
// 本页内 pending 的通知在返回时已被标记为已读.
type ListNotificationsResponse struct {
	Items    []NotificationItem `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int64              `json:"total"`
}

// FileHistoryItem 文件历史视图中的一条记录.
type FileHistoryItem struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	ActionKind  string    `json:"action_kind"`
	Description string    `json:"description"`
	UserID      *uint     `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileHistoryResponse 文件活动历史，最新在前，条数有上限.
type FileHistoryResponse struct {
	FileID uint              `json:"file_id"`
	Items  []FileHistoryItem `json:"items"`
}

package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// LedgerRowRef 标识一行账本记录.
type LedgerRowRef struct {
	TransactionID uint   `json:"transaction_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

// LedgerAppendedPayload 一个逻辑动作的全部账本行写入完成.
type LedgerAppendedPayload struct {
	ActionID string         `json:"action_id"`
	Rows     []LedgerRowRef `json:"rows"`
	FileID   uint           `json:"file_id,omitempty"`
}

// TransferSentPayload 文件转移已发出.
type TransferSentPayload struct {
	ActionIDs    []string `json:"action_ids"` // 每个接收人一个 ActionID
	FileID       uint     `json:"file_id"`
	FromUserID   uint     `json:"from_user_id"`
	RecipientIDs []uint   `json:"recipient_ids"`
}

// TransferResolvedPayload 某接收人对转移做出裁决.
type TransferResolvedPayload struct {
	ActionID      string `json:"action_id"`
	TransactionID uint   `json:"transaction_id"`
	FileID        uint   `json:"file_id"`
	UserID        uint   `json:"user_id"`
	Decision      string `json:"decision"` // accept / deny
}

// FileUploadedPayload 档案登记完成.
type FileUploadedPayload struct {
	FileID    uint   `json:"file_id"`
	OwnerID   uint   `json:"owner_id"`
	ObjectKey string `json:"object_key,omitempty"` // 为空表示纯纸质档案
}

// FileRelocatedPayload 档案物理位置变更.
type FileRelocatedPayload struct {
	FileID     uint  `json:"file_id"`
	LocationID *uint `json:"location_id,omitempty"`
}

// FileScannedPayload 档案二维码被扫描.
type FileScannedPayload struct {
	FileID uint   `json:"file_id"`
	UserID uint   `json:"user_id"`
	Path   string `json:"path,omitempty"` // 扫描时解析出的位置路径
}

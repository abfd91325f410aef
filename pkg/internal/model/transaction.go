package model

import (
	"time"
)

// TxType 事务类型，封闭词表.
// 历史上各调用点混用过 "file_sent"/"send"、"file_approve"/"accept" 等写法，
// 这里统一为单一规范词表，所有写入必须使用下列常量.
type TxType string

const (
	TxUpload          TxType = "upload"
	TxSend            TxType = "send"
	TxAccept          TxType = "accept"
	TxDeny            TxType = "deny"
	TxRequest         TxType = "request"
	TxScan            TxType = "scan"
	TxNotification    TxType = "notification"
	TxCoOwnership     TxType = "co_ownership"
	TxLogin           TxType = "login"
	TxDigitalAccess   TxType = "digital_access"
	TxPhysicalRequest TxType = "physical_request"
	TxRelocation      TxType = "relocation"
	TxFetchStatus     TxType = "fetch_status"
	TxOther           TxType = "other"
)

// TxStatus 事务状态，与类型相关，并非每种类型都会用到每个状态.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusCompleted TxStatus = "completed"
	StatusAccepted  TxStatus = "accepted"
	StatusDenied    TxStatus = "denied"
	StatusRead      TxStatus = "read"
	StatusFailed    TxStatus = "failed"
)

// ActionKind 历史视图的动作标签，随记录一起落库.
// 旧数据没有该字段，由 description 文本分类兜底（见 service.ClassifyAction）.
type ActionKind string

const (
	ActionSent     ActionKind = "sent"
	ActionReceived ActionKind = "received"
	ActionCopied   ActionKind = "copied"
	ActionRenamed  ActionKind = "renamed"
	ActionOther    ActionKind = "other"
)

// Transaction 审计账本行，一经写入不再删除.
// 状态迁移（pending→accepted 等）通过更新本行 Status 完成，不为同一逻辑事件插入新行.
// ActionID（ULID）把同一逻辑动作产生的多行关联起来：发送行与其通知行共享一个 ActionID.
type Transaction struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	UserID            *uint `gorm:"index"      json:"user_id,omitempty"`
	FileID            *uint `gorm:"index"      json:"file_id,omitempty"`
	UsersDepartmentID *uint `gorm:"index"      json:"users_department_id,omitempty"`

	Type   TxType   `gorm:"size:32;index" json:"type"`
	Status TxStatus `gorm:"size:32;index" json:"status"`

	ActionID    string     `gorm:"size:26;index" json:"action_id"`
	ActionKind  ActionKind `gorm:"size:32"       json:"action_kind"`
	Description string     `gorm:"type:text"     json:"description"`

	// 由账本在写入时以服务器时钟赋值，不接受调用方时间戳
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// KnownTxTypes 规范词表，账本写入前校验.
var KnownTxTypes = map[TxType]struct{}{
	TxUpload: {}, TxSend: {}, TxAccept: {}, TxDeny: {}, TxRequest: {},
	TxScan: {}, TxNotification: {}, TxCoOwnership: {}, TxLogin: {},
	TxDigitalAccess: {}, TxPhysicalRequest: {}, TxRelocation: {},
	TxFetchStatus: {}, TxOther: {},
}

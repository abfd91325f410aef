package service

import "errors"

// 业务错误哨兵，handler 层据此映射 HTTP 状态码.
var (
	// ErrNotFound 目标记录不存在，或待响应的流转行已不在 pending 状态（重放/双击）.
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized 操作者不具备归属资格，绝不静默降级.
	ErrUnauthorized = errors.New("not authorized")
	// ErrUnknownTxType 账本写入使用了词表之外的事务类型.
	ErrUnknownTxType = errors.New("unknown transaction type")
	// ErrNoDigitalCopy 档案没有电子副本，无法提供下载.
	ErrNoDigitalCopy = errors.New("file has no digital copy")
)

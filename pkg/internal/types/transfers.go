package types

// SendTransferRequest 发起档案流转请求，支持多收件人扇出.
type SendTransferRequest struct {
	FileID       uint   `binding:"required" json:"file_id"`
	RecipientIDs []uint `binding:"required" json:"recipient_ids"`
	Description  string `json:"description,omitempty"`
}

// SendTransferResponse 流转发起结果，每个收件人一条发送记录.
type SendTransferResponse struct {
	FileID  uint               `json:"file_id"`
	Results []TransferSentItem `json:"results"`
}

// TransferSentItem 单个收件人的发送记录.
type TransferSentItem struct {
	RecipientID   uint   `json:"recipient_id"`
	TransactionID uint   `json:"transaction_id"`
	ActionID      string `json:"action_id"`
}

// RespondTransferRequest 响应流转请求：accept 或 deny.
type RespondTransferRequest struct {
	Decision string `binding:"required,oneof=accept deny" json:"decision"`
}

// RespondTransferResponse 响应结果.
type RespondTransferResponse struct {
	TransactionID uint   `json:"transaction_id"`
	FileID        uint   `json:"file_id"`
	Status        string `json:"status"`
}

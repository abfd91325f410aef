// Package types 定义 HTTP 接口的请求与响应结构.
package types

// RegisterFileRequest 登记新档案请求.
type RegisterFileRequest struct {
	Name            string `binding:"required" json:"name"`
	DepartmentID    uint   `binding:"required" json:"department_id"`
	SubDepartmentID *uint  `json:"sub_department_id,omitempty"`
	LocationID      *uint  `json:"location_id,omitempty"`

	// 以下字段用于电子副本，纯纸质档案可全部留空
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	WithUpload  bool   `json:"with_upload,omitempty"` // 是否同时申请预签名上传
}

// RegisterFileResponse 登记结果，WithUpload 时附带预签名 PUT.
type RegisterFileResponse struct {
	FileID    uint   `json:"file_id"`
	ObjectKey string `json:"object_key,omitempty"`
	PutURL    string `json:"put_url,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"` // 过期时间 (秒)
}

// RelocateFileRequest 调整档案物理位置请求.
type RelocateFileRequest struct {
	LocationID uint `binding:"required" json:"location_id"`
}

// RelocateFileResponse 调整位置结果，返回新的位置路径.
type RelocateFileResponse struct {
	FileID       uint   `json:"file_id"`
	LocationPath string `json:"location_path"`
}

// ScanFileResponse 扫描取档结果：返回档案当前完整位置路径.
type ScanFileResponse struct {
	FileID       uint   `json:"file_id"`
	Name         string `json:"name"`
	LocationPath string `json:"location_path"`
}

// DigitalAccessRequest 电子副本访问请求.
type DigitalAccessRequest struct {
	ExpirySeconds int `json:"expiry_seconds,omitempty"` // 可选；缺省使用服务默认值
}

// DigitalAccessResponse 电子副本访问响应，预签名下载 URL.
type DigitalAccessResponse struct {
	FileID    uint   `json:"file_id"`
	ObjectKey string `json:"object_key"`
	GetURL    string `json:"get_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PhysicalRequestResponse 纸质调阅申请结果.
type PhysicalRequestResponse struct {
	FileID   uint   `json:"file_id"`
	ActionID string `json:"action_id"`
	Status   string `json:"status"`
}

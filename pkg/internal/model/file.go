package model

import (
	"time"

	"gorm.io/gorm"
)

// 文件状态，仅软删除，不做物理删除.
const (
	FileStatusActive   = "active"
	FileStatusArchived = "archived"
)

// File 档案文件模型.
// DepartmentID/SubDepartmentID 决定展示哪条部门路径，LocationID 指向物理存放位置，
// ObjectKey 指向对象存储中的电子副本（可为空，纯纸质档案没有电子件）.
type File struct {
	ID      uint   `gorm:"primaryKey"     json:"id"`
	Name    string `gorm:"size:512;index" json:"name"`
	OwnerID uint   `gorm:"index"          json:"owner_id"`

	DepartmentID    uint  `gorm:"index" json:"department_id"`
	SubDepartmentID *uint `gorm:"index" json:"sub_department_id,omitempty"`
	LocationID      *uint `gorm:"index" json:"location_id,omitempty"`

	// 电子副本（S3 对象键），和 Bucket 一起定位对象
	ObjectKey   string `gorm:"size:1024;index" json:"object_key"`
	Bucket      string `gorm:"size:255"        json:"bucket"`
	ContentType string `gorm:"size:255"        json:"content_type"`
	Size        int64  `json:"size"`

	Status string `gorm:"size:32;index;default:active" json:"status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// User 用户模型，仅保留归属判断所需的最小字段，账号管理在外部系统.
type User struct {
	ID           uint   `gorm:"primaryKey"            json:"id"`
	Name         string `gorm:"size:255"              json:"name"`
	Email        string `gorm:"size:255;index:,unique" json:"email"`
	DepartmentID uint   `gorm:"index"                 json:"department_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package model 定义数据库模型.
package model

import (
	"time"
)

// DepartmentType 部门类型.
type DepartmentType string

const (
	DepartmentCollege DepartmentType = "college"
	DepartmentOffice  DepartmentType = "office"
	DepartmentSub     DepartmentType = "sub_department"
)

// Department 部门模型，通过 ParentID 自引用构成森林：学院/办公室为根，子部门挂在其下.
// 约定 sub_department 应有非空 ParentID，但解析器必须容忍空父节点（按根处理）.
type Department struct {
	ID   uint           `gorm:"primaryKey"     json:"id"`
	Name string         `gorm:"size:255;index" json:"name"`
	Type DepartmentType `gorm:"size:32;index"  json:"type"`
	// ParentID 为空表示根节点；父链必须有限无环，遍历侧有跳数上限兜底
	ParentID  *uint `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StorageLocation 物理存放位置：房间/柜/层/盒/文件夹，全部可空.
// 一个位置概念上最多存放一个文件，但排他性由外部管理页保证，解析器不强制.
type StorageLocation struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Room    string `gorm:"size:64"    json:"room"`
	Cabinet string `gorm:"size:64"    json:"cabinet"`
	Layer   string `gorm:"size:64"    json:"layer"`
	Box     string `gorm:"size:64"    json:"box"`
	Folder  string `gorm:"size:64"    json:"folder"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

package types

// LocationDetails 位置明细，六个键始终存在，未知时为 null，方便下游稳定消费.
type LocationDetails struct {
	Department *string `json:"department"`
	Room       *string `json:"room"`
	Cabinet    *string `json:"cabinet"`
	Layer      *string `json:"layer"`
	Box        *string `json:"box"`
	Folder     *string `json:"folder"`
}

// FileLocation 档案完整存放路径与明细.
type FileLocation struct {
	Path    string          `json:"path"`
	Details LocationDetails `json:"details"`
}

// FileLocationResponse 位置查询响应.
type FileLocationResponse struct {
	FileID   uint          `json:"file_id"`
	Location *FileLocation `json:"location"`
}

// DepartmentPathResponse 部门父链解析结果，根在前、叶在后.
type DepartmentPathResponse struct {
	Names []string `json:"names"`
}

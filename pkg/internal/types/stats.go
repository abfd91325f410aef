package types

// DashboardStats 仪表盘统计.
type DashboardStats struct {
	TotalFiles       int64           `json:"total_files"`
	TotalUsers       int64           `json:"total_users"`
	TotalDepartments int64           `json:"total_departments"`
	PendingTransfers int64           `json:"pending_transfers"`
	FilesByType      []StatsTypeItem `json:"files_by_type"`
	TxByType         []StatsTypeItem `json:"tx_by_type"`
	RecentActivity   []TrendPoint    `json:"recent_activity"`
}

// StatsTypeItem 按类型聚合的一项.
type StatsTypeItem struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// TrendPoint 趋势点（按日）.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

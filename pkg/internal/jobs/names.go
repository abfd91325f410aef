package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobTransferStaleSweep = "transfer.stale_sweep"
	JobStatsRefresh       = "stats.refresh"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronTransferStaleSweep = "0 3 * * *"
	CronStatsRefresh       = "15 * * * *"
)

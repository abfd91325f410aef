package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxTreeDepth 部门父链遍历的跳数上限，防止脏数据成环导致死循环.
	DefaultMaxTreeDepth = 50
	// DefaultPathSeparator 位置路径展示分隔符.
	DefaultPathSeparator = "→"
	// DefaultHistoryLimit 单个文件历史视图的最大条数.
	DefaultHistoryLimit = 50
	// DefaultNotifyPageSize 通知列表默认分页大小.
	DefaultNotifyPageSize = 20
	// DefaultStaleTransferDays 待处理转移多少天未响应视为滞留.
	DefaultStaleTransferDays = 7
	// DefaultLocationCacheTTL 位置路径缓存有效期（分钟）.
	DefaultLocationCacheTTL = 10
)

// ArchiveConfig 归档业务配置.
type ArchiveConfig struct {
	MaxTreeDepth      int    `mapstructure:"max_tree_depth"      rule:"min=1,max=200"`
	PathSeparator     string `mapstructure:"path_separator"      rule:"required"`
	HistoryLimit      int    `mapstructure:"history_limit"       rule:"min=1,max=500"`
	NotifyPageSize    int    `mapstructure:"notify_page_size"    rule:"min=1,max=200"`
	StaleTransferDays int    `mapstructure:"stale_transfer_days" rule:"min=1,max=365"`
	LocationCacheTTL  int    `mapstructure:"location_cache_ttl"  rule:"min=0"`
}

// GetLocationCacheTTL 返回位置缓存有效期作为 time.Duration.
func (c *ArchiveConfig) GetLocationCacheTTL() time.Duration {
	return time.Duration(c.LocationCacheTTL) * time.Minute
}

// setDefaults 设置归档业务配置的默认值.
func (c *ArchiveConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("archive.max_tree_depth", DefaultMaxTreeDepth)
	v.SetDefault("archive.path_separator", DefaultPathSeparator)
	v.SetDefault("archive.history_limit", DefaultHistoryLimit)
	v.SetDefault("archive.notify_page_size", DefaultNotifyPageSize)
	v.SetDefault("archive.stale_transfer_days", DefaultStaleTransferDays)
	v.SetDefault("archive.location_cache_ttl", DefaultLocationCacheTTL)
}

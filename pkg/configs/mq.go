package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS MQType = "nats"

	DefaultMQURL         = "localhost:4222"
	DefaultMaxReconnects = 5                // 默认最大重连次数
	DefaultReconnectWait = 5                // 默认重连等待时间（秒）
	DefaultPingInterval  = 20               // 默认ping间隔（秒）
	DefaultBufferSize    = 32768            // 默认缓冲区大小（32KB）
	DefaultMQClientID    = "archivault-app" // 默认客户端ID

	// JetStream 流配置常量.

	DefaultStreamMaxMsgs  = 1000000            // 默认流最大消息数
	DefaultStreamMaxBytes = 1024 * 1024 * 1024 // 默认流最大字节数 (1GB)
	DefaultStreamMaxAge   = 24 * 7             // 默认流最大年龄（小时），账本事件保留一周
)

// MQConfig 消息队列配置.归档服务只用 NATS 一种后端，账本事件经 JetStream 持久化.
type MQConfig struct {
	Type          MQType `mapstructure:"type"           rule:"oneof=nats"`
	URL           string `mapstructure:"url"            rule:"hostname_port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	ClientID      string `mapstructure:"client_id"`
	MaxReconnects int    `mapstructure:"max_reconnects" rule:"min=0,max=100"`
	ReconnectWait int    `mapstructure:"reconnect_wait" rule:"min=1,max=300"`
	PingInterval  int    `mapstructure:"ping_interval"  rule:"min=1,max=300"`
	BufferSize    int    `mapstructure:"buffer_size"    rule:"min=1024,max=1048576"`

	JetStreamEnabled       bool   `mapstructure:"jetstream_enabled"`
	JetStreamAutoProvision bool   `mapstructure:"jetstream_auto_provision"`
	JetStreamTrackMsgID    bool   `mapstructure:"jetstream_track_msg_id"`
	JetStreamDurablePrefix string `mapstructure:"jetstream_durable_prefix"`
	StreamName             string `mapstructure:"stream_name"`
	SubjectPrefix          string `mapstructure:"subject_prefix"`
	StreamMaxMsgs          int64  `mapstructure:"stream_max_msgs"`
	StreamMaxBytes         int64  `mapstructure:"stream_max_bytes"`
	StreamMaxAge           int    `mapstructure:"stream_max_age"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", string(MQTypeNATS))
	v.SetDefault("mq.url", DefaultMQURL)
	v.SetDefault("mq.user", "")
	v.SetDefault("mq.password", "")
	v.SetDefault("mq.client_id", DefaultMQClientID)
	v.SetDefault("mq.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.ping_interval", DefaultPingInterval)
	v.SetDefault("mq.buffer_size", DefaultBufferSize)

	v.SetDefault("mq.jetstream_enabled", true)
	v.SetDefault("mq.jetstream_auto_provision", true)
	v.SetDefault("mq.jetstream_track_msg_id", true)
	v.SetDefault("mq.jetstream_durable_prefix", "archivault-durable")
	v.SetDefault("mq.stream_name", "archivault-stream")
	v.SetDefault("mq.subject_prefix", "archivault.")
	v.SetDefault("mq.stream_max_msgs", DefaultStreamMaxMsgs)
	v.SetDefault("mq.stream_max_bytes", DefaultStreamMaxBytes)
	v.SetDefault("mq.stream_max_age", DefaultStreamMaxAge)
}

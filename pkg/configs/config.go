// Package configs 管理应用程序配置，包括数据库、对象存储、消息队列与归档业务的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	import "github.com/yeisme/archivault/pkg/configs"
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号.
const AppVersion = "1.0.0"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB        DBConfig        `mapstructure:"db"`         // 数据库配置
		S3        S3Config        `mapstructure:"s3"`         // 对象存储配置（电子副本）
		MQ        MQConfig        `mapstructure:"mq"`         // 消息队列配置（账本事件流）
		KV        KVConfig        `mapstructure:"kv"`         // KV 缓存配置（位置路径缓存）
		Server    ServerConfig    `mapstructure:"server"`     // 服务器配置
		Log       LogConfig       `mapstructure:"log"`        // 日志配置
		Metrics   MetricsConfig   `mapstructure:"metrics"`    // 监控配置
		Tracing   TracingConfig   `mapstructure:"tracing"`    // 追踪配置
		Breaker   BreakerConfig   `mapstructure:"breaker"`    // 熔断配置
		RateLimit RateLimitConfig `mapstructure:"rate_limit"` // 速率限制配置
		Archive   ArchiveConfig   `mapstructure:"archive"`    // 归档业务配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// path 可以是配置文件或包含 config.<ext> 的目录.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	// path 是文件时让 Viper 自动检测类型，否则按目录查找 config.<ext>
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("ARCHIVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		// 允许无配置文件运行（纯默认值 + 环境变量）
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	(&ServerConfig{}).setDefaults(v)
	(&DBConfig{}).setDefaults(v)
	(&S3Config{}).setDefaults(v)
	(&MQConfig{}).setDefaults(v)
	(&KVConfig{}).setDefaults(v)
	(&LogConfig{}).setDefaults(v)
	(&MetricsConfig{}).setDefaults(v)
	(&TracingConfig{}).setDefaults(v)
	(&BreakerConfig{}).setDefaults(v)
	(&RateLimitConfig{}).setDefaults(v)
	(&ArchiveConfig{}).setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}

// Package config 加载数据库、日志与表格定义配置
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"tablesearch/datatable"
	"tablesearch/errors"
	"tablesearch/logging"
	core "tablesearch/storage/database"
)

// DefaultEnvPrefix 环境变量前缀，例如 TABLESEARCH_DATABASE_DRIVER
const DefaultEnvPrefix = "TABLESEARCH"

// Config 应用配置
type Config struct {
	Database     core.DBConfig `mapstructure:"database"`
	Log          LogConfig     `mapstructure:"log"`
	TableConfigs []TableConfig `mapstructure:"tables"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Prefix string `mapstructure:"prefix"`
}

// TableConfig 表格定义
type TableConfig struct {
	Name    string         `mapstructure:"name"`
	From    string         `mapstructure:"from"`
	Columns []ColumnConfig `mapstructure:"columns"`
}

// ColumnConfig 列定义
//
// Kind: text、number、bool、date，为空表示通用列。
// Choices 非空时使用选项校验；否则 Min/Max 任一设置时使用数值校验。
type ColumnConfig struct {
	Name      string   `mapstructure:"name"`
	Field     string   `mapstructure:"field"`
	Kind      string   `mapstructure:"kind"`
	Operator  string   `mapstructure:"operator"`
	Global    *bool    `mapstructure:"global"`
	Orderable *bool    `mapstructure:"orderable"`
	Choices   []string `mapstructure:"choices"`
	Layout    string   `mapstructure:"layout"`
	LeftExpr  string   `mapstructure:"left_expr"`
	Min       *float64 `mapstructure:"min"`
	Max       *float64 `mapstructure:"max"`
}

// Load 读取配置文件（path 为空时跳过）并以 envPrefix 环境变量覆盖
//
// 可被环境变量覆盖的只有标量配置（database.*、log.*），表格定义只来自文件。
func Load(path, envPrefix string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeConfig,
				fmt.Sprintf("读取配置文件失败: %s", path))
		}
	}

	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig, "解析配置失败")
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig, "日志级别无效")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.database", ":memory:")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("database.conn_max_idle_time", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.prefix", "[tablesearch]")
}

// NewLogger 按配置创建日志器
func (c LogConfig) NewLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig, "日志级别无效")
	}
	return logging.NewStdLogger(c.Prefix).WithLevel(level), nil
}

// Tables 按定义顺序构建所有表格
func (c *Config) Tables() ([]*datatable.Table, error) {
	out := make([]*datatable.Table, 0, len(c.TableConfigs))
	for _, tc := range c.TableConfigs {
		t, err := tc.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Table 按名称构建单个表格
func (c *Config) Table(name string) (*datatable.Table, error) {
	for _, tc := range c.TableConfigs {
		if tc.Name == name {
			return tc.Build()
		}
	}
	return nil, errors.NewError(errors.ErrCodeNotFound, fmt.Sprintf("未配置表格: %s", name)).
		WithContext("table", name)
}

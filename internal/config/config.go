package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// Config 比对工具配置
type Config struct {
	Legislation      string `mapstructure:"legislation"`       // 默认法规
	LegislationsFile string `mapstructure:"legislations_file"` // 自定义法规 TOML 文件
	OutputFormat     string `mapstructure:"output_format"`     // table, csv, json, xlsx；为空时按输出文件扩展名推断
	OutputFile       string `mapstructure:"output_file"`       // 为空时按格式使用默认文件名
	StatsFile        string `mapstructure:"stats_file"`        // 统计数据库路径
	RecordStats      bool   `mapstructure:"record_stats"`      // 是否记录比对统计
	ShowSkipped      bool   `mapstructure:"show_skipped"`      // 输出被跳过的行和未识别的参数
	Color            bool   `mapstructure:"color"`             // 终端输出着色
	Debug            bool   `mapstructure:"debug"`
	Verbose          bool   `mapstructure:"verbose"`   // 详细模式
	LogLevel         string `mapstructure:"log_level"` // 基础日志级别
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 查找家目录中的配置文件
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		// 添加可能的配置文件路径
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".laudos")
		v.SetConfigType("yaml")
	}

	// 读取环境变量
	v.SetEnvPrefix("LAUDOS")
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// 设置统计文件（如果未设置）
	if config.StatsFile == "" {
		config.StatsFile = getDefaultStatsFile()
	}

	return &config, nil
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(home, ".laudos.yaml")
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	// 添加所有配置项
	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	// 创建父目录（如果不存在）
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Legislation: laudo.LegislationDNCopam,
		StatsFile:   getDefaultStatsFile(),
		RecordStats: true,
		Color:       true,
		LogLevel:    "info",
	}
}

// getDefaultStatsFile 获取默认统计文件路径
func getDefaultStatsFile() string {
	// 优先使用系统配置目录
	configDir, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(configDir, "laudos", "stats.json")
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(homeDir, ".laudos", "stats.json")
	}

	// 最后的兜底方案
	return "./laudos-stats.json"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("legislation", laudo.LegislationDNCopam)
	v.SetDefault("legislations_file", "")
	v.SetDefault("output_format", "")
	v.SetDefault("output_file", "")
	v.SetDefault("stats_file", "")
	v.SetDefault("record_stats", true)
	v.SetDefault("show_skipped", false)
	v.SetDefault("color", true)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	return map[string]interface{}{
		"legislation":       config.Legislation,
		"legislations_file": config.LegislationsFile,
		"output_format":     config.OutputFormat,
		"output_file":       config.OutputFile,
		"stats_file":        config.StatsFile,
		"record_stats":      config.RecordStats,
		"show_skipped":      config.ShowSkipped,
		"color":             config.Color,
		"debug":             config.Debug,
		"verbose":           config.Verbose,
		"log_level":         config.LogLevel,
	}
}

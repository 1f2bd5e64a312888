package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Security   SecurityConfig   `yaml:"security" mapstructure:"security"`
	Cloudflare CloudflareConfig `yaml:"cloudflare" mapstructure:"cloudflare"`
	Jira       JiraConfig       `yaml:"jira" mapstructure:"jira"`
	Slack      SlackConfig      `yaml:"slack" mapstructure:"slack"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"` // json, text
	Output     string `yaml:"output" mapstructure:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // MB
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // days
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // number of backup files
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // compress backup files
}

type MonitoringConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MetricsPath string        `yaml:"metrics_path" mapstructure:"metrics_path"`
	Tracing     TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// TracingConfig OpenTelemetry 追踪配置
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`         // OTLP gRPC 端点，例如 http://otel-collector:4317
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`         // 是否使用明文（本地/开发）
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"` // 采样率 0.0~1.0
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"` // 自定义服务名，缺省使用 "remedify"
}

type SecurityConfig struct {
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

type CloudflareConfig struct {
	APIBase  string `yaml:"api_base" mapstructure:"api_base"`
	ZoneID   string `yaml:"zone_id" mapstructure:"zone_id"`
	APIToken string `yaml:"api_token" mapstructure:"api_token"`
}

type JiraConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Email      string `yaml:"email" mapstructure:"email"`
	APIToken   string `yaml:"api_token" mapstructure:"api_token"`
	ProjectKey string `yaml:"project_key" mapstructure:"project_key"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

func Load() *Config {
	setDefaults()
	bindEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(err)
	}
	return &config
}

// Validate 启动时校验配置，缺失项按环境变量名汇总返回
//
// 所有动作在运行期都可达，因此三个远端的配置全部必填，
// 不把缺失推迟到首次调用才暴露。
func (c *Config) Validate() error {
	var missing []string

	if c.Cloudflare.ZoneID == "" {
		missing = append(missing, "CLOUDFLARE_ZONE_ID")
	}
	if c.Cloudflare.APIToken == "" {
		missing = append(missing, "CLOUDFLARE_API_TOKEN")
	}
	if c.Jira.BaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if c.Jira.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c.Jira.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if c.Jira.ProjectKey == "" {
		missing = append(missing, "JIRA_PROJECT_KEY")
	}
	if c.Slack.WebhookURL == "" {
		missing = append(missing, "SLACK_WEBHOOK_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file_path", "./logs/remedify.log")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_age", 7)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.compress", true)

	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.tracing.enabled", false)
	viper.SetDefault("monitoring.tracing.endpoint", "http://localhost:4317")
	viper.SetDefault("monitoring.tracing.insecure", true)
	viper.SetDefault("monitoring.tracing.sample_ratio", 0.1)
	viper.SetDefault("monitoring.tracing.service_name", "remedify")

	viper.SetDefault("security.cors.enabled", true)
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})

	viper.SetDefault("cloudflare.api_base", "https://api.cloudflare.com/client/v4")
	viper.SetDefault("cloudflare.zone_id", "")
	viper.SetDefault("cloudflare.api_token", "")

	viper.SetDefault("jira.base_url", "")
	viper.SetDefault("jira.email", "")
	viper.SetDefault("jira.api_token", "")
	viper.SetDefault("jira.project_key", "")

	viper.SetDefault("slack.webhook_url", "")
}

// bindEnv 将部署环境变量映射到配置键
func bindEnv() {
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("cloudflare.zone_id", "CLOUDFLARE_ZONE_ID")
	_ = viper.BindEnv("cloudflare.api_token", "CLOUDFLARE_API_TOKEN")
	_ = viper.BindEnv("jira.base_url", "JIRA_BASE_URL")
	_ = viper.BindEnv("jira.email", "JIRA_EMAIL")
	_ = viper.BindEnv("jira.api_token", "JIRA_API_TOKEN")
	_ = viper.BindEnv("jira.project_key", "JIRA_PROJECT_KEY")
	_ = viper.BindEnv("slack.webhook_url", "SLACK_WEBHOOK_URL")
}

// GetDefaultConfig 返回默认配置
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "./logs/remedify.log",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
			Compress:   true,
		},
		Monitoring: MonitoringConfig{
			Enabled:     true,
			MetricsPath: "/metrics",
			Tracing: TracingConfig{
				Enabled:     false,
				Endpoint:    "http://localhost:4317",
				Insecure:    true,
				SampleRatio: 0.1,
				ServiceName: "remedify",
			},
		},
		Security: SecurityConfig{
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"*"},
			},
		},
		Cloudflare: CloudflareConfig{
			APIBase: "https://api.cloudflare.com/client/v4",
		},
	}
}

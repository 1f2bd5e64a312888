package cloudflare

import "time"

// AccessRuleRequest 创建防火墙访问规则请求
type AccessRuleRequest struct {
	Mode          string            `json:"mode"`
	Configuration RuleConfiguration `json:"configuration"`
	Notes         string            `json:"notes"`
}

// RuleConfiguration 规则匹配条件
type RuleConfiguration struct {
	Target string      `json:"target"`
	Value  interface{} `json:"value"`
}

// AccessRule 已创建的访问规则
type AccessRule struct {
	ID            string            `json:"id"`
	Mode          string            `json:"mode"`
	Notes         string            `json:"notes"`
	Configuration RuleConfiguration `json:"configuration"`
	CreatedOn     time.Time         `json:"created_on"`
	ModifiedOn    time.Time         `json:"modified_on"`
}

// APIError Cloudflare 返回的错误条目
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AccessRuleResponse API 响应信封
//
// Cloudflare wraps every response in {success, errors, messages, result};
// the success flag is authoritative, not the HTTP status code.
type AccessRuleResponse struct {
	Success  bool       `json:"success"`
	Errors   []APIError `json:"errors"`
	Messages []APIError `json:"messages"`
	Result   AccessRule `json:"result"`
}

// 客户端配置
type Config struct {
	APIBase  string        `yaml:"api_base"`
	ZoneID   string        `yaml:"zone_id"`
	APIToken string        `yaml:"api_token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		APIBase: "https://api.cloudflare.com/client/v4",
		Timeout: 30 * time.Second,
	}
}

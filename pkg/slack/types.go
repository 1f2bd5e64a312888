package slack

import "time"

// Message Incoming Webhook 消息体
type Message struct {
	Blocks []Block `json:"blocks"`
}

// Block Block Kit 块，类型为 header、section 或 context
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// Text 文本对象，type 为 plain_text 或 mrkdwn
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// 客户端配置
type Config struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

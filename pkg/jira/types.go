package jira

import "time"

// CreateIssueRequest 创建工单请求
type CreateIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// IssueFields 工单字段
type IssueFields struct {
	Project     ProjectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description *ADFDocument `json:"description,omitempty"`
	IssueType   IssueTypeRef `json:"issuetype"`
	Labels      []string     `json:"labels,omitempty"`
	Priority    *PriorityRef `json:"priority,omitempty"`
}

type ProjectRef struct {
	Key string `json:"key"`
}

type IssueTypeRef struct {
	Name string `json:"name"`
}

type PriorityRef struct {
	Name string `json:"name"`
}

// ADFDocument Atlassian Document Format 文档
//
// The v3 issue API only accepts descriptions in this format.
type ADFDocument struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []ADFNode `json:"content"`
}

// ADFNode 文档节点，叶子节点为 text
type ADFNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []ADFNode `json:"content,omitempty"`
}

// CreatedIssue 创建成功响应
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// ErrorResponse Jira 错误响应
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// 客户端配置
type Config struct {
	BaseURL    string        `yaml:"base_url"`
	Email      string        `yaml:"email"`
	APIToken   string        `yaml:"api_token"`
	ProjectKey string        `yaml:"project_key"`
	Timeout    time.Duration `yaml:"timeout"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

package services

// ActionType 修复动作类型
type ActionType string

const (
	ActionBlockIP       ActionType = "block_ip"
	ActionRateLimitIP   ActionType = "rate_limit_ip"
	ActionAddWAFRule    ActionType = "add_waf_rule"
	ActionBlockEndpoint ActionType = "block_endpoint"
	ActionAlertSRE      ActionType = "alert_sre"
)

// 结果状态
const (
	StatusSuccess         = "success"
	StatusPendingApproval = "pending_approval"
	StatusIgnored         = "ignored"
	StatusError           = "error"
)

// RemediationRequest 单次修复请求，只在一次调用内存活
//
// Payload 保留完整请求体，告警类动作会原样转发给通知端。
type RemediationRequest struct {
	Action   string
	Target   interface{}
	Severity string
	Payload  map[string]interface{}
}

// NewRemediationRequest 从已解析的请求体提取路由字段
//
// severity 缺省为 medium，target 不做任何模式校验。
func NewRemediationRequest(body map[string]interface{}) *RemediationRequest {
	req := &RemediationRequest{
		Severity: "medium",
		Payload:  body,
	}

	if v, ok := body["action"].(string); ok {
		req.Action = v
	}
	if v, ok := body["target"]; ok {
		req.Target = v
	}
	if v, ok := body["severity"].(string); ok && v != "" {
		req.Severity = v
	}

	return req
}

// RemediationResult 单次修复请求的结果，序列化后即丢弃
type RemediationResult struct {
	Status           string      `json:"status"`
	ActionTaken      string      `json:"action_taken,omitempty"`
	Action           string      `json:"action,omitempty"`
	Target           interface{} `json:"target,omitempty"`
	Method           string      `json:"method,omitempty"`
	Message          string      `json:"message,omitempty"`
	ExecutedAt       string      `json:"executed_at,omitempty"`
	JiraTicket       string      `json:"jira_ticket,omitempty"`
	CloudflareRuleID string      `json:"cloudflare_rule_id,omitempty"`
}

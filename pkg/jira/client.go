package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"remedify/pkg/faults"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client Jira HTTP 客户端
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	projectKey string
	httpClient *http.Client
	logger     *logrus.Logger
}

// TicketerInterface 定义工单客户端接口
//
// Success predicate: a 2xx transport response. The created issue key is
// read from the response body.
type TicketerInterface interface {
	CreateRemediationTicket(ctx context.Context, action string, target interface{}, severity string) (*CreatedIssue, error)
}

// NewClient 创建新的 Jira 客户端
func NewClient(config *Config, logger *logrus.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	return &Client{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		email:      config.Email,
		apiToken:   config.APIToken,
		projectKey: config.ProjectKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// CreateRemediationTicket 为待人工审批的动作创建工单
//
// 三类待审批动作永不自动执行，一律走工单，severity 只影响优先级。
func (c *Client) CreateRemediationTicket(ctx context.Context, action string, target interface{}, severity string) (*CreatedIssue, error) {
	// 配置校验必须在任何网络调用之前
	if c.baseURL == "" || c.email == "" || c.apiToken == "" || c.projectKey == "" {
		return nil, faults.New(faults.ConfigurationMissing, "jira",
			"configuration missing: base URL, email, API token and project key are required")
	}

	tracer := otel.Tracer("remedify/jira")
	ctx, span := tracer.Start(ctx, "Jira.CreateRemediationTicket")
	span.SetAttributes(
		attribute.String("jira.project_key", c.projectKey),
		attribute.String("remediation.action", action),
	)
	defer span.End()

	issue := CreateIssueRequest{
		Fields: IssueFields{
			Project:     ProjectRef{Key: c.projectKey},
			Summary:     summaryForAction(action),
			Description: buildDescription(action, target, severity),
			IssueType:   IssueTypeRef{Name: "Task"},
			Labels:      []string{"security", "auto-remediation"},
			Priority:    &PriorityRef{Name: priorityForSeverity(severity)},
		},
	}

	req, err := c.createRequest(ctx, http.MethodPost, "/rest/api/3/issue", issue)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var created CreatedIssue
	if err := c.doRequest(req, &created); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &created, nil
}

// summaryForAction 下划线转空格并大写，如 add_waf_rule -> ADD WAF RULE
func summaryForAction(action string) string {
	return strings.ToUpper(strings.ReplaceAll(action, "_", " "))
}

// priorityForSeverity 仅 severity 精确等于 high 时映射为 High
func priorityForSeverity(severity string) string {
	if severity == "high" {
		return "High"
	}
	return "Medium"
}

// buildDescription 组装 ADF 描述，target 以 JSON 原样嵌入
func buildDescription(action string, target interface{}, severity string) *ADFDocument {
	targetJSON, _ := json.Marshal(target)

	return &ADFDocument{
		Type:    "doc",
		Version: 1,
		Content: []ADFNode{
			paragraph("Automated security remediation request pending approval."),
			paragraph(fmt.Sprintf("Action: %s", action)),
			paragraph(fmt.Sprintf("Target: %s", string(targetJSON))),
			paragraph(fmt.Sprintf("Severity: %s", severity)),
		},
	}
}

func paragraph(text string) ADFNode {
	return ADFNode{
		Type: "paragraph",
		Content: []ADFNode{
			{Type: "text", Text: text},
		},
	}
}

// 私有方法：创建 HTTP 请求
func (c *Client) createRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, faults.Wrap(faults.TransportFailure, "jira", fmt.Errorf("marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, faults.Wrap(faults.TransportFailure, "jira", fmt.Errorf("create request: %w", err))
	}

	// Basic 认证：email + API token，凭证绝不写入日志
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Remedify-Jira-Client/1.0")

	return req, nil
}

// 私有方法：执行请求
func (c *Client) doRequest(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "jira", fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "jira", fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debugf("Jira API Request: %s %s", req.Method, req.URL.String())

	// 非 2xx：先完整记录远端错误响应，再上抛
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Errorf("Jira API error [%d]: %s", resp.StatusCode, string(body))
		return faults.New(faults.RemoteRejected, "jira", "ticket creation rejected with status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return faults.Wrap(faults.TransportFailure, "jira", fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}

package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"remedify/pkg/faults"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client Cloudflare 防火墙 HTTP 客户端
type Client struct {
	baseURL    string
	zoneID     string
	apiToken   string
	httpClient *http.Client
	logger     *logrus.Logger
}

// FirewallInterface 定义防火墙客户端接口
//
// Success predicate: the response envelope's success flag must be true.
// The HTTP status code alone decides nothing.
type FirewallInterface interface {
	CreateBlockRule(ctx context.Context, target interface{}) (*AccessRule, error)
}

// NewClient 创建新的 Cloudflare 客户端
func NewClient(config *Config, logger *logrus.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	baseURL := config.APIBase
	if baseURL == "" {
		baseURL = DefaultConfig().APIBase
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	return &Client{
		baseURL:  baseURL,
		zoneID:   config.ZoneID,
		apiToken: config.APIToken,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// CreateBlockRule 在 zone 级防火墙创建 block 规则
//
// target 原样透传，不做 IP 语法校验。
func (c *Client) CreateBlockRule(ctx context.Context, target interface{}) (*AccessRule, error) {
	// 配置校验必须在任何网络调用之前
	if c.zoneID == "" || c.apiToken == "" {
		return nil, faults.New(faults.ConfigurationMissing, "cloudflare",
			"configuration missing: zone ID and API token are required")
	}

	tracer := otel.Tracer("remedify/cloudflare")
	ctx, span := tracer.Start(ctx, "Cloudflare.CreateBlockRule")
	span.SetAttributes(attribute.String("cloudflare.zone_id", c.zoneID))
	defer span.End()

	rule := AccessRuleRequest{
		Mode: "block",
		Configuration: RuleConfiguration{
			Target: "ip",
			Value:  target,
		},
		Notes: "Blocked by automated security remediation",
	}

	endpoint := fmt.Sprintf("/zones/%s/firewall/access_rules/rules", c.zoneID)
	req, err := c.createRequest(ctx, http.MethodPost, endpoint, rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var response AccessRuleResponse
	if err := c.doRequest(req, &response); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !response.Success {
		message := "request was not successful"
		if len(response.Errors) > 0 {
			message = response.Errors[0].Message
		}
		c.logger.Errorf("Cloudflare rejected block rule for %v: %s", target, message)
		span.SetStatus(codes.Error, message)
		return nil, faults.New(faults.RemoteRejected, "cloudflare", "block rule rejected: %s", message)
	}

	return &response.Result, nil
}

// 私有方法：创建 HTTP 请求
func (c *Client) createRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, faults.Wrap(faults.TransportFailure, "cloudflare", fmt.Errorf("marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, faults.Wrap(faults.TransportFailure, "cloudflare", fmt.Errorf("create request: %w", err))
	}

	// 设置请求头
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("User-Agent", "Remedify-Cloudflare-Client/1.0")

	return req, nil
}

// 私有方法：执行请求并解析响应信封
//
// body 不论 HTTP 状态码如何都要解析，成败由信封的 success 字段决定。
func (c *Client) doRequest(req *http.Request, result *AccessRuleResponse) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "cloudflare", fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "cloudflare", fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debugf("Cloudflare API Request: %s %s", req.Method, req.URL.String())
	c.logger.Debugf("Cloudflare API Response: %d %s", resp.StatusCode, string(body))

	if err := json.Unmarshal(body, result); err != nil {
		return faults.Wrap(faults.TransportFailure, "cloudflare",
			fmt.Errorf("decode response [%d]: %w", resp.StatusCode, err))
	}

	return nil
}

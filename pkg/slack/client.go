package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remedify/pkg/faults"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Client Slack Incoming Webhook 客户端
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NotifierInterface 定义通知客户端接口
//
// Success predicate: a 2xx transport response. Unlike the firewall and
// ticketing clients the response body is never inspected, Slack webhooks
// answer plain "ok" rather than a JSON envelope.
type NotifierInterface interface {
	SendSecurityAlert(ctx context.Context, payload map[string]interface{}) error
}

// NewClient 创建新的 Slack 客户端
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
		webhookURL: config.WebhookURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// SendSecurityAlert 推送安全告警到 SRE 频道
func (c *Client) SendSecurityAlert(ctx context.Context, payload map[string]interface{}) error {
	// 配置校验必须在任何网络调用之前
	if c.webhookURL == "" {
		return faults.New(faults.ConfigurationMissing, "slack",
			"configuration missing: webhook URL is required")
	}

	tracer := otel.Tracer("remedify/slack")
	ctx, span := tracer.Start(ctx, "Slack.SendSecurityAlert")
	defer span.End()

	message := buildAlertMessage(payload, time.Now().UTC())

	bodyBytes, err := json.Marshal(message)
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "slack", fmt.Errorf("marshal message: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return faults.Wrap(faults.TransportFailure, "slack", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Remedify-Slack-Client/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return faults.Wrap(faults.TransportFailure, "slack", fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.logger.Debugf("Slack webhook response: %d %s", resp.StatusCode, string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("webhook returned status %d", resp.StatusCode)
		c.logger.Errorf("Slack webhook call failed: %s", message)
		span.SetStatus(codes.Error, message)
		return faults.New(faults.TransportFailure, "slack", "%s", message)
	}

	return nil
}

// buildAlertMessage 组装固定版式的 Block Kit 告警
//
// threat/severity/target 缺失或为空时使用占位默认值，
// action 原样透传，缺失时为空。
func buildAlertMessage(payload map[string]interface{}, now time.Time) *Message {
	threat := stringField(payload, "threat", "Unknown")
	severity := stringField(payload, "severity", "Medium")
	target := stringField(payload, "target", "N/A")
	action := stringField(payload, "action", "")

	return &Message{
		Blocks: []Block{
			{
				Type: "header",
				Text: &Text{Type: "plain_text", Text: "🚨 Security Remediation Alert", Emoji: true},
			},
			{
				Type: "section",
				Fields: []Text{
					{Type: "mrkdwn", Text: fmt.Sprintf("*Threat:*\n%s", threat)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Severity:*\n%s", severity)},
				},
			},
			{
				Type: "section",
				Fields: []Text{
					{Type: "mrkdwn", Text: fmt.Sprintf("*Target:*\n%s", target)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Recommended Action:*\n%s", action)},
				},
			},
			{
				Type: "context",
				Elements: []Text{
					{Type: "mrkdwn", Text: fmt.Sprintf("Detected at %s", now.Format(time.RFC3339))},
				},
			},
		},
	}
}

// stringField 读取载荷字段，缺失或为空串时返回 fallback
func stringField(payload map[string]interface{}, key, fallback string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return fallback
	}
	s := fmt.Sprintf("%v", value)
	if s == "" {
		return fallback
	}
	return s
}

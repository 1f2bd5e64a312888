package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"remedify/pkg/faults"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestClient(url string) *Client {
	return NewClient(&Config{WebhookURL: url}, logrus.New())
}

func TestSendSecurityAlert_MessageLayout(t *testing.T) {
	var gotMessage Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&gotMessage)
		assert.NoError(t, err)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload := map[string]interface{}{
		"threat":   "SQLi",
		"severity": "high",
		"target":   "api.example.com",
		"action":   "block",
	}
	err := client.SendSecurityAlert(context.Background(), payload)
	assert.NoError(t, err)

	// header + 两个 section + context
	assert.Len(t, gotMessage.Blocks, 4)

	header := gotMessage.Blocks[0]
	assert.Equal(t, "header", header.Type)
	assert.Contains(t, header.Text.Text, "Security Remediation Alert")

	first := gotMessage.Blocks[1]
	assert.Equal(t, "section", first.Type)
	assert.Len(t, first.Fields, 2)
	assert.Contains(t, first.Fields[0].Text, "SQLi")
	assert.Contains(t, first.Fields[1].Text, "high")

	second := gotMessage.Blocks[2]
	assert.Equal(t, "section", second.Type)
	assert.Len(t, second.Fields, 2)
	assert.Contains(t, second.Fields[0].Text, "api.example.com")
	assert.Contains(t, second.Fields[1].Text, "block")

	footer := gotMessage.Blocks[3]
	assert.Equal(t, "context", footer.Type)
	assert.Len(t, footer.Elements, 1)

	// 时间戳必须是 ISO-8601
	stamp := strings.TrimPrefix(footer.Elements[0].Text, "Detected at ")
	_, err = time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}

func TestSendSecurityAlert_Placeholders(t *testing.T) {
	var gotMessage Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotMessage)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendSecurityAlert(context.Background(), map[string]interface{}{})
	assert.NoError(t, err)

	first := gotMessage.Blocks[1]
	assert.Equal(t, "*Threat:*\nUnknown", first.Fields[0].Text)
	assert.Equal(t, "*Severity:*\nMedium", first.Fields[1].Text)

	// action 没有占位默认值，缺失时为空
	second := gotMessage.Blocks[2]
	assert.Equal(t, "*Target:*\nN/A", second.Fields[0].Text)
	assert.Equal(t, "*Recommended Action:*\n", second.Fields[1].Text)
}

func TestSendSecurityAlert_ResponseBodyIgnored(t *testing.T) {
	// webhook 返回 2xx 即成功，响应体不解析
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid_payload"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendSecurityAlert(context.Background(), map[string]interface{}{"threat": "XSS"})
	assert.NoError(t, err)
}

func TestSendSecurityAlert_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("server_error"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendSecurityAlert(context.Background(), map[string]interface{}{"threat": "XSS"})
	assert.Error(t, err)
	assert.True(t, faults.Is(err, faults.TransportFailure))
	assert.Contains(t, err.Error(), "500")
}

func TestSendSecurityAlert_MissingConfig(t *testing.T) {
	client := NewClient(&Config{}, logrus.New())
	err := client.SendSecurityAlert(context.Background(), map[string]interface{}{"threat": "XSS"})
	assert.Error(t, err)
	assert.True(t, faults.Is(err, faults.ConfigurationMissing))
}

func TestBuildAlertMessage_Timestamp(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	message := buildAlertMessage(map[string]interface{}{}, now)

	footer := message.Blocks[3]
	assert.Equal(t, "Detected at 2025-03-14T09:26:53Z", footer.Elements[0].Text)
}

package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"remedify/pkg/faults"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestClient(url string) *Client {
	return NewClient(&Config{
		BaseURL:    url,
		Email:      "sre@example.com",
		APIToken:   "jira-token",
		ProjectKey: "SEC",
	}, logrus.New())
}

// collectText 摊平 ADF 文档里的所有文本节点
func collectText(nodes []ADFNode) []string {
	var texts []string
	for _, node := range nodes {
		if node.Text != "" {
			texts = append(texts, node.Text)
		}
		texts = append(texts, collectText(node.Content)...)
	}
	return texts
}

func TestCreateRemediationTicket_Success(t *testing.T) {
	var gotPath string
	var gotUser, gotPass string
	var gotRequest CreateIssueRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		err := json.NewDecoder(r.Body).Decode(&gotRequest)
		assert.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10042","key":"SEC-123","self":"https://example.atlassian.net/rest/api/3/issue/10042"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	issue, err := client.CreateRemediationTicket(context.Background(), "add_waf_rule", "/api/v1/users", "high")
	assert.NoError(t, err)
	assert.Equal(t, "SEC-123", issue.Key)

	assert.Equal(t, "/rest/api/3/issue", gotPath)
	assert.Equal(t, "sre@example.com", gotUser)
	assert.Equal(t, "jira-token", gotPass)

	fields := gotRequest.Fields
	assert.Equal(t, "SEC", fields.Project.Key)
	assert.Equal(t, "Task", fields.IssueType.Name)
	assert.Equal(t, []string{"security", "auto-remediation"}, fields.Labels)
	assert.Equal(t, "ADD WAF RULE", fields.Summary)
}

func TestCreateRemediationTicket_PriorityHigh(t *testing.T) {
	var gotRequest CreateIssueRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(`{"id":"1","key":"SEC-1","self":""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateRemediationTicket(context.Background(), "rate_limit_ip", "203.0.113.7", "high")
	assert.NoError(t, err)
	assert.Equal(t, "High", gotRequest.Fields.Priority.Name)
}

func TestCreateRemediationTicket_PriorityDefaultsToMedium(t *testing.T) {
	var gotRequest CreateIssueRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(`{"id":"1","key":"SEC-1","self":""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// critical 不是 high，同样落到 Medium
	_, err := client.CreateRemediationTicket(context.Background(), "rate_limit_ip", "203.0.113.7", "critical")
	assert.NoError(t, err)
	assert.Equal(t, "Medium", gotRequest.Fields.Priority.Name)

	_, err = client.CreateRemediationTicket(context.Background(), "rate_limit_ip", "203.0.113.7", "medium")
	assert.NoError(t, err)
	assert.Equal(t, "Medium", gotRequest.Fields.Priority.Name)
}

func TestCreateRemediationTicket_DescriptionEmbedsTarget(t *testing.T) {
	var gotRequest CreateIssueRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(`{"id":"1","key":"SEC-7","self":""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	target := map[string]interface{}{"endpoint": "/admin/login"}
	_, err := client.CreateRemediationTicket(context.Background(), "block_endpoint", target, "medium")
	assert.NoError(t, err)

	description := gotRequest.Fields.Description
	assert.NotNil(t, description)
	assert.Equal(t, "doc", description.Type)
	assert.Equal(t, 1, description.Version)

	// target 以 JSON 原样出现在描述里
	text := strings.Join(collectText(description.Content), "\n")
	assert.Contains(t, text, `{"endpoint":"/admin/login"}`)
	assert.Contains(t, text, "Action: block_endpoint")
	assert.Contains(t, text, "Severity: medium")
}

func TestCreateRemediationTicket_RemoteRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["Field 'priority' is required"],"errors":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateRemediationTicket(context.Background(), "add_waf_rule", "/api", "high")
	assert.Error(t, err)
	assert.True(t, faults.Is(err, faults.RemoteRejected))
	assert.Contains(t, err.Error(), "400")
}

func TestCreateRemediationTicket_MissingConfig(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL}, logrus.New())
	_, err := client.CreateRemediationTicket(context.Background(), "add_waf_rule", "/api", "high")
	assert.Error(t, err)
	assert.True(t, faults.Is(err, faults.ConfigurationMissing))
	assert.Equal(t, 0, hits)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMiddleware_RecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/metrics", gin.WrapH(Handler()))

	// 先打一个业务请求，再抓取指标输出
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "remedify_http_requests_total") {
		t.Fatal("metrics output should contain remedify_http_requests_total")
	}
	if !strings.Contains(body, `path="/ping"`) {
		t.Fatal("metrics output should label the matched route")
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", gin.WrapH(Handler()))

	// 404 也被计数，但路径收敛到 unmatched
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/no/such/route", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `path="unmatched"`) {
		t.Fatal("unmatched routes should share one path label")
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestID_Generated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotContextID string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		gotContextID = c.GetString("request_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	echoed := w.Header().Get(RequestIDHeader)
	if echoed == "" {
		t.Fatal("response should carry a request id")
	}
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("generated id should be a uuid: %v", err)
	}
	if gotContextID != echoed {
		t.Fatalf("context id %s does not match header %s", gotContextID, echoed)
	}
}

func TestRequestID_HonorsIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "incoming-id-42")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "incoming-id-42" {
		t.Fatalf("incoming id should be echoed, got %s", got)
	}
}

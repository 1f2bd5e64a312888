package observability

import (
	"context"
	"testing"

	"remedify/internal/config"
)

func TestSetupTracing_Disabled(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Monitoring.Tracing.Enabled = false

	shutdown, err := SetupTracing(context.Background(), cfg)
	if err != nil {
		t.Fatalf("SetupTracing failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown function should not be nil")
	}
	// 未启用时关闭函数是空操作
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not fail: %v", err)
	}
}

func TestEndpointHost(t *testing.T) {
	cases := map[string]string{
		"http://localhost:4317":        "localhost:4317",
		"https://collector:4317":       "collector:4317",
		"collector:4317":               "collector:4317",
		"http://collector:4317/v1/abc": "collector:4317",
	}
	for in, want := range cases {
		if got := endpointHost(in); got != want {
			t.Fatalf("endpointHost(%q) = %q, want %q", in, got, want)
		}
	}
}

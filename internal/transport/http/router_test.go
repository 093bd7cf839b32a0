package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ptesting "studenthub-server-go/internal/platform/testing"
)

func TestBuildRequiresConfig(t *testing.T) {
	if _, err := Build(Options{}); err == nil {
		t.Fatalf("expected error without config")
	}
}

func TestBuildServesHealthAndMetrics(t *testing.T) {
	router, err := Build(Options{Config: ptesting.SetupTestConfig(t)})
	ptesting.AssertNoError(t, err)
	if router.Secured != nil {
		t.Fatalf("no auth middleware means no secured group")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.Engine.ServeHTTP(w, req)
	ptesting.AssertEqual(t, w.Code, http.StatusOK)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header on every response")
	}

	var resp APIResponse
	ptesting.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if !resp.Success {
		t.Fatalf("expected success envelope, got %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	router.Engine.ServeHTTP(w, req)
	ptesting.AssertEqual(t, w.Code, http.StatusOK)
}

func TestBuildEchoesClientRequestID(t *testing.T) {
	router, err := Build(Options{Config: ptesting.SetupTestConfig(t)})
	ptesting.AssertNoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	w := httptest.NewRecorder()
	router.Engine.ServeHTTP(w, req)
	ptesting.AssertEqual(t, w.Header().Get("X-Request-Id"), "caller-supplied")
}

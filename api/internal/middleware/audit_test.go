package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"warehouse-ops-dashboard/api/internal/repos"
	"warehouse-ops-dashboard/shared/logx"
)

func TestAuditMutationWithoutPoolDoesNotPanic(t *testing.T) {
	mw := AuditMiddleware{
		Enabled: true,
		Repo:    repos.NewAuditRepo(nil),
		Logger:  logx.New("test", "test", "", "error"),
	}
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/users/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Let the async write run; it must fail cleanly, not crash.
	time.Sleep(50 * time.Millisecond)
}

func TestAuditResourceFromPath(t *testing.T) {
	cases := []struct {
		path     string
		resource string
		id       string
	}{
		{"/api/v1/users/u1", "users", "u1"},
		{"/api/v1/settings/threshold", "settings", "threshold"},
		{"/api/v1/files/upload", "files", ""},
		{"/api/v1/analytics/day", "", ""},
		{"/healthz", "", ""},
	}
	for _, tc := range cases {
		resource, id := resourceFromPath(tc.path)
		got := ""
		if resource != nil {
			got = *resource
		}
		if got != tc.resource {
			t.Fatalf("%s: expected resource %q, got %q", tc.path, tc.resource, got)
		}
		gotID := ""
		if id != nil {
			gotID = *id
		}
		if gotID != tc.id {
			t.Fatalf("%s: expected id %q, got %q", tc.path, tc.id, gotID)
		}
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// Helpers must not panic before or after Init.
	IncrementFrame()
	IncrementExecution("Buy")
	IncrementNotification("ok")
	IncrementDuplicate()
	IncrementReconnect()
	SetConnected(true)
	SetConnected(false)
}

func TestHandlerServesExposition(t *testing.T) {
	Init()
	IncrementFrame()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "execnotify_frames_total") {
		t.Fatalf("exposition missing frames counter:\n%s", body)
	}
}

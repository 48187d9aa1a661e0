package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInternal_FixedBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Internal(rr)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Internal Server Error"}` {
		t.Fatalf("unexpected body: %s", got)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestWriteRawJSON_Unchanged(t *testing.T) {
	rr := httptest.NewRecorder()
	body := []byte(`[{"node":{"id":1}}]`)
	WriteRawJSON(rr, http.StatusOK, body)

	if rr.Body.String() != string(body) {
		t.Fatalf("body was modified: %s", rr.Body.String())
	}
}

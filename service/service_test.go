package service

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lookbusy1344/deci/decimal"
)

func newTestServer() *Server {
	return NewServer(":0", 50, 100)
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleEvalReturnsResult(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/v1/eval", EvalRequest{Expression: "1 + 2", SessionID: "s1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp EvalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != "3" {
		t.Errorf("Result = %q, want 3", resp.Result)
	}
	if resp.ValueRef != "$1" {
		t.Errorf("ValueRef = %q, want $1", resp.ValueRef)
	}

	rawBin, err := hex.DecodeString(resp.ResultBinary)
	if err != nil || len(rawBin) != 12 {
		t.Fatalf("ResultBinary = %q, want 24 hex chars (12 bytes): %v", resp.ResultBinary, err)
	}
	var bin [12]byte
	copy(bin[:], rawBin)
	got, err := decimal.FromBinary(bin)
	if err != nil {
		t.Fatalf("FromBinary(ResultBinary): %v", err)
	}
	want, err := decimal.FromText("3")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if !decimal.Equal(got, want) {
		t.Errorf("decoded ResultBinary = %s, want 3", decimal.ToText(got))
	}
}

func TestHandleEvalRejectsBadExpression(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/v1/eval", EvalRequest{Expression: "1 / 0", SessionID: "s1"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandleEvalRequiresExpression(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/v1/eval", EvalRequest{SessionID: "s1"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBatchEvalChainsValueHistory(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/v1/eval/batch", BatchEvalRequest{
		SessionID:   "batch1",
		Expressions: []string{"10 / 4", "$1 * 2"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp BatchEvalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[1].Result != "5" {
		t.Errorf("second result = %q, want 5", resp.Results[1].Result)
	}
}

func TestHandleBatchEvalRejectsOversizedBatch(t *testing.T) {
	srv := NewServer(":0", 1, 100)
	rec := postJSON(t, srv, "/api/v1/eval/batch", BatchEvalRequest{
		SessionID:   "s1",
		Expressions: []string{"1 + 1", "2 + 2"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSessionHistoryAndLogRoutes(t *testing.T) {
	srv := newTestServer()
	postJSON(t, srv, "/api/v1/eval", EvalRequest{Expression: "1 + 1", SessionID: "hist1"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/hist1/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, want 200", rec.Code)
	}
	var hist HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Values) != 1 || hist.Values[0] != "2" {
		t.Errorf("history = %v, want [2]", hist.Values)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/session/hist1/log", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("log status = %d, want 200", rec.Code)
	}
	var logResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &logResp); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if logResp["log"] == "" {
		t.Error("expected non-empty session log after an evaluation")
	}
}

func TestSessionDestroy(t *testing.T) {
	srv := newTestServer()
	postJSON(t, srv, "/api/v1/eval", EvalRequest{Expression: "1 + 1", SessionID: "gone"})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/session/gone", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleHealthReportsSessionCount(t *testing.T) {
	srv := newTestServer()
	postJSON(t, srv, "/api/v1/eval", EvalRequest{Expression: "1 + 1", SessionID: "health1"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["sessions"] != float64(1) {
		t.Errorf("sessions field = %v, want 1", body["sessions"])
	}
}

func TestCORSPreflightAllowsLocalhost(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/eval", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}

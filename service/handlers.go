package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/lookbusy1344/deci/decimal"
)

func resultText(v decimal.Decimal) string {
	return decimal.ToText(v)
}

// resultBinaryHex hex-encodes v's 12-byte packed binary form (spec §4.10).
// Every Decimal a kernel operation returns is already well-formed, so
// ToBinary cannot fail here; a failure just yields an empty string rather
// than panicking the handler.
func resultBinaryHex(v decimal.Decimal) string {
	bin, err := decimal.ToBinary(v)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(bin[:])
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1024*1024))
	return decoder.Decode(v)
}

// handleHealth reports liveness and the number of live sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"sessions":         s.sessions.Count(),
		"subscriptions":    s.broadcaster.SubscriptionCount(),
		"droppedBroadcast": s.broadcaster.DroppedCount(),
	})
}

// handleEval handles POST /api/v1/eval: evaluate one expression.
func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EvalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Expression == "" {
		writeError(w, http.StatusBadRequest, "expression is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	sess := s.sessions.GetOrCreate(req.SessionID)
	entry := sess.Evaluate(req.Expression, s.broadcaster, s.maxLog)

	if entry.Error != "" {
		writeError(w, http.StatusUnprocessableEntity, entry.Error)
		return
	}

	writeJSON(w, http.StatusOK, EvalResponse{
		Expression:   entry.Expression,
		Result:       entry.Result,
		ResultBinary: entry.ResultBinary,
		ValueRef:     entry.ValueRef,
	})
}

// handleBatchEval handles POST /api/v1/eval/batch: evaluate many
// expressions against the same session in order, so later expressions can
// reference earlier results via $N.
func (s *Server) handleBatchEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchEvalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Expressions) > s.maxBatch {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch exceeds maximum size of %d", s.maxBatch))
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	sess := s.sessions.GetOrCreate(req.SessionID)
	results := make([]BatchEvalResult, 0, len(req.Expressions))
	for _, expr := range req.Expressions {
		results = append(results, sess.Evaluate(expr, s.broadcaster, s.maxLog))
	}

	writeJSON(w, http.StatusOK, BatchEvalResponse{Results: results})
}

// handleSessionRoute routes /api/v1/session/{id} and
// /api/v1/session/{id}/history.
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/api/v1/session/"):]
	if path == "" {
		writeError(w, http.StatusBadRequest, "session ID required")
		return
	}

	id := path
	var sub string
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			id = path[:i]
			sub = path[i+1:]
			break
		}
	}

	switch {
	case sub == "history" && r.Method == http.MethodGet:
		sess := s.sessions.GetOrCreate(id)
		writeJSON(w, http.StatusOK, HistoryResponse{Values: sess.History()})

	case sub == "log" && r.Method == http.MethodGet:
		sess := s.sessions.GetOrCreate(id)
		writeJSON(w, http.StatusOK, map[string]string{"log": sess.Log()})

	case sub == "" && r.Method == http.MethodDelete:
		if s.sessions.Destroy(id) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		} else {
			writeError(w, http.StatusNotFound, "unknown session")
		}

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/envelope"
	"github.com/marcus-qen/hragent/internal/fault"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge, envelope.Failure{
		Error:   "RequestTooLarge",
		Message: "request body too large (limit 1MB)",
	})
}

// respond renders an operation outcome in the response envelope.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	body, err := envelope.Success(payload)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// writeFault classifies err, logs it and writes the failure envelope.
// Unexpected errors are logged in full but reach the caller only as a
// generic message.
func (s *Server) writeFault(w http.ResponseWriter, r *http.Request, err error) {
	f := fault.Classify(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Int("status", f.Status),
	}

	switch f.Kind {
	case fault.Backend:
		s.logger.Error("workday error", append(fields, zap.Any("payload", f.Details), zap.Error(err))...)
	case fault.Validation:
		s.logger.Warn("invalid request", append(fields, zap.String("message", f.Message))...)
	case fault.Unauthorized:
		s.logger.Warn("unauthorized request", fields...)
	default:
		s.logger.Error("unexpected error", append(fields, zap.Error(err))...)
	}

	writeJSON(w, f.Status, envelope.FromFault(f))
}

func (s *Server) rejectUnauthorized(w http.ResponseWriter, r *http.Request) {
	s.writeFault(w, r, fault.ErrUnauthorized)
}

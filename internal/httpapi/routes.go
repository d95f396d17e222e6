package httpapi

import (
	"net/http"

	"github.com/marcus-qen/hragent/internal/auth"
	"github.com/marcus-qen/hragent/internal/metrics"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.Handle("GET /metrics", metrics.Handler())

	requireToken := auth.Middleware(s.rejectUnauthorized)
	operation := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireToken(s.limiter.middleware("http", h)))
	}

	operation("GET /api/getWorker", s.handleGetWorker)
	operation("GET /api/getLeaveBalances", s.handleGetLeaveBalances)
	operation("POST /api/bookLeave", s.handleBookLeave)
	operation("POST /api/changeBusinessTitle", s.handleChangeBusinessTitle)
	operation("GET /api/getDirectReports", s.handleGetDirectReports)
	operation("GET /api/getPaySlips", s.handleGetPaySlips)
	operation("GET /api/getInboxTasks", s.handleGetInboxTasks)
	operation("GET /api/getLearningAssignments", s.handleGetLearningAssignments)
	operation("GET /api/getTimeOffEntries", s.handleGetTimeOffEntries)
	operation("POST /api/requestLeave", s.handleRequestLeave)
	operation("GET /api/searchLearningContent", s.handleSearchLearningContent)

	if s.mcp != nil {
		mux.Handle("/mcp", requireToken(s.limiter.middleware("mcp", s.mcp.Handler())))
	}

	var handler http.Handler = mux
	handler = maxBodySizeMiddleware(handler)
	handler = s.accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	})
}

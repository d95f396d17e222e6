package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/marcus-qen/hragent/internal/auth"
	"github.com/marcus-qen/hragent/internal/hr"
	"github.com/marcus-qen/hragent/internal/workday"
)

// service builds the request-scoped operation runner for r's caller.
func (s *Server) service(r *http.Request) *hr.Service {
	client := workday.NewClient(s.backend, auth.TokenFromContext(r.Context()))
	return hr.NewService(client, s.logger, hr.WithClock(s.now))
}

// readBody reads a write request's body. An oversized body is answered with
// 413 here and reported as ok == false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeTooLarge(w)
			return nil, false
		}
		s.writeFault(w, r, err)
		return nil, false
	}
	return body, true
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service(r).Profile(r.Context())
	s.respond(w, r, profile, err)
}

func (s *Server) handleGetLeaveBalances(w http.ResponseWriter, r *http.Request) {
	overview, err := s.service(r).LeaveOverview(r.Context())
	s.respond(w, r, overview, err)
}

func (s *Server) handleBookLeave(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, err := hr.DecodeBookLeave(body)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	booking, err := s.service(r).BookLeave(r.Context(), req)
	s.respond(w, r, booking, err)
}

func (s *Server) handleChangeBusinessTitle(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	title, err := hr.DecodeTitleChange(body)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	change, err := s.service(r).ChangeBusinessTitle(r.Context(), title)
	s.respond(w, r, change, err)
}

func (s *Server) handleGetDirectReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.service(r).DirectReports(r.Context())
	s.respond(w, r, map[string]any{"directReports": reports}, err)
}

func (s *Server) handleGetPaySlips(w http.ResponseWriter, r *http.Request) {
	slips, err := s.service(r).PaySlips(r.Context())
	s.respond(w, r, map[string]any{"paySlips": slips}, err)
}

func (s *Server) handleGetInboxTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service(r).InboxTasks(r.Context())
	s.respond(w, r, map[string]any{"tasks": tasks}, err)
}

func (s *Server) handleGetLearningAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := s.service(r).LearningAssignments(r.Context())
	s.respond(w, r, map[string]any{"assignments": assignments, "total": len(assignments)}, err)
}

func (s *Server) handleGetTimeOffEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service(r).TimeOffEntries(r.Context())
	s.respond(w, r, map[string]any{"timeOffEntries": entries}, err)
}

// handleRequestLeave prepares a leave request. An unreadable body is treated
// as an empty one.
func (s *Server) handleRequestLeave(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	prep, err := s.service(r).PrepareLeaveRequest(r.Context(), hr.DecodeLeaveRequestParams(body))
	s.respond(w, r, prep, err)
}

func (s *Server) handleSearchLearningContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	content, err := s.service(r).SearchLearningContent(r.Context(), q["skills"], q["topics"])
	s.respond(w, r, map[string]any{"content": content, "total": len(content)}, err)
}

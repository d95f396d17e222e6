package workday

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcus-qen/hragent/internal/config"
)

const (
	testTenant     = "acme"
	searchPath     = reportPrefix + "/COPILOT_CURRENTUSER"
	workersPath    = "/ccx/api/absenceManagement/v1/acme/workers"
	absencePrefix  = "/ccx/api/absenceManagement/v1/acme"
	commonPrefix   = "/ccx/api/common/v1/acme"
	learningPrefix = "/ccx/api/learning/v1/acme"
	reportPrefix   = "/ccx/service/customreport2/acme/svasireddy"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(ClientConfig{
		Endpoints: config.WorkdayConfig{BaseURL: srv.URL, Tenant: testTenant, Timeout: 2 * time.Second},
	}, "token-123")
	return client, srv
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestCallSendsCredentialAndJSONHeaders(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("authorization header = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("accept header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type header = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"hello":"world"}` {
			t.Errorf("unexpected body %s", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	data, err := client.Call(context.Background(), Request{
		Resource: "test",
		Method:   http.MethodPost,
		URL:      srv.URL + "/echo",
		Body:     map[string]string{"hello": "world"},
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if m, ok := data.(map[string]any); !ok || m["ok"] != true {
		t.Fatalf("unexpected data %#v", data)
	}
}

func TestCallNon2xxCarriesStatusAndDecodedPayload(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "invalid_scope", "errors": []any{"x"}})
	})

	_, err := client.Call(context.Background(), Request{URL: srv.URL + "/denied"})
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T %v", err, err)
	}
	if backendErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", backendErr.StatusCode)
	}
	payload, ok := backendErr.Payload.(map[string]any)
	if !ok || payload["error"] != "invalid_scope" {
		t.Fatalf("expected decoded payload, got %#v", backendErr.Payload)
	}
	if backendErr.Error() != "Workday request failed (403)" {
		t.Fatalf("unexpected message %q", backendErr.Error())
	}
}

func TestCallNon2xxWithTextBody(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	})

	_, err := client.Call(context.Background(), Request{URL: srv.URL})
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.Payload != "<html>upstream down</html>" {
		t.Fatalf("expected raw text payload, got %#v", backendErr.Payload)
	}
}

func TestCallDecodesBodies(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		status      int
		body        string
		want        any
	}{
		{name: "empty", status: http.StatusNoContent, want: nil},
		{name: "text", contentType: "text/plain", status: http.StatusOK, body: "plain reply", want: "plain reply"},
		{name: "json without content type", status: http.StatusOK, body: `"quoted"`, want: "quoted"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			data, err := client.Call(context.Background(), Request{URL: srv.URL})
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if data != tc.want {
				t.Fatalf("data = %#v, want %#v", data, tc.want)
			}
		})
	}
}

func TestCallTransportFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(ClientConfig{Endpoints: config.WorkdayConfig{BaseURL: srv.URL}}, "t")

	_, err := client.Call(context.Background(), Request{URL: srv.URL + "/x"})
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.HasStatus() {
		t.Fatalf("transport failure should carry no status, got %d", backendErr.StatusCode)
	}
	if !strings.HasPrefix(backendErr.Error(), "Failed to reach Workday:") {
		t.Fatalf("unexpected message %q", backendErr.Error())
	}
	if errors.Unwrap(backendErr) == nil {
		t.Fatal("expected underlying cause")
	}
}

func TestCallEnforcesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	client := NewClient(ClientConfig{
		Endpoints: config.WorkdayConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond},
	}, "t")

	started := time.Now()
	_, err := client.Call(context.Background(), Request{URL: srv.URL})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.HasStatus() {
		t.Fatalf("expected status-less BackendError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded cause, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestCallMergesQueryWithExistingParameters(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "json" {
			t.Errorf("expected format=json kept, got %v", q)
		}
		if got := q["skills"]; len(got) != 2 || got[0] != "go" || got[1] != "sql" {
			t.Errorf("expected repeated skills, got %v", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := client.Call(context.Background(), Request{
		URL:   srv.URL + "/report?format=json",
		Query: map[string][]string{"skills": {"go", "sql"}},
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
}

func TestResolveContextCachesAfterFirstLookup(t *testing.T) {
	var lookups int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected format=json on report lookup")
		}
		atomic.AddInt32(&lookups, 1)
		writeJSON(w, http.StatusOK, map[string]any{
			"Report_Entry": []any{
				map[string]any{"current_user": "jdoe", "workdayId": "wid-1"},
				map[string]any{"Current_User": "other", "workdayID": "wid-2"},
			},
		})
	})

	first, err := client.ResolveContext(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := client.ResolveContext(context.Background())
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first != second {
		t.Fatalf("cached context differs: %+v vs %+v", first, second)
	}
	if first.SubjectKey != "jdoe" || first.BackendID != "wid-1" {
		t.Fatalf("expected first entry with alternate casing, got %+v", first)
	}
	if n := atomic.LoadInt32(&lookups); n != 1 {
		t.Fatalf("expected exactly one lookup, got %d", n)
	}
}

func TestResolveContextPrefersFirstSpelling(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"Report_Entry": []any{map[string]any{
				"Current_User": "Upper", "current_user": "lower",
				"workdayID": "WID", "workdayId": "wid",
			}},
		})
	})

	subject, err := client.ResolveContext(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if subject.SubjectKey != "Upper" || subject.BackendID != "WID" {
		t.Fatalf("expected first spellings, got %+v", subject)
	}
}

func TestResolveContextFailuresAreNotCached(t *testing.T) {
	var lookups int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&lookups, 1)
		switch n {
		case 1:
			writeJSON(w, http.StatusOK, map[string]any{"Report_Entry": []any{}})
		case 2:
			writeJSON(w, http.StatusOK, map[string]any{"Report_Entry": []any{map[string]any{"Current_User": "jdoe"}}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"Report_Entry": []any{map[string]any{"Current_User": "jdoe", "workdayID": "wid-1"}}})
		}
	})

	_, err := client.ResolveContext(context.Background())
	if !errors.Is(err, ErrNoReportEntries) {
		t.Fatalf("expected ErrNoReportEntries, got %v", err)
	}
	_, err = client.ResolveContext(context.Background())
	if !errors.Is(err, ErrMissingIdentifiers) {
		t.Fatalf("expected ErrMissingIdentifiers, got %v", err)
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.Payload == nil {
		t.Fatalf("expected entry attached as payload, got %#v", err)
	}
	subject, err := client.ResolveContext(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if subject.BackendID != "wid-1" {
		t.Fatalf("unexpected subject %+v", subject)
	}
	if n := atomic.LoadInt32(&lookups); n != 3 {
		t.Fatalf("expected 3 lookups, got %d", n)
	}
}

func TestWorkerProfileFetchedOnce(t *testing.T) {
	var workerCalls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case searchPath:
			writeJSON(w, http.StatusOK, map[string]any{"Report_Entry": []any{map[string]any{"Current_User": "jdoe", "workdayID": "wid-1"}}})
		case workersPath:
			atomic.AddInt32(&workerCalls, 1)
			if got := r.URL.Query().Get("search"); got != "'jdoe'" {
				t.Errorf("search param = %q", got)
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": []any{map[string]any{"id": "wid-1", "descriptor": "Jane Doe"}}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	for i := 0; i < 2; i++ {
		profile, err := client.WorkerProfile(context.Background())
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if got := profile.Str("descriptor"); got == nil || *got != "Jane Doe" {
			t.Fatalf("unexpected profile %v", profile)
		}
	}
	if n := atomic.LoadInt32(&workerCalls); n != 1 {
		t.Fatalf("expected one worker fetch, got %d", n)
	}
}

func TestWorkerProfileEmptySearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == searchPath {
			writeJSON(w, http.StatusOK, map[string]any{"Report_Entry": []any{map[string]any{"Current_User": "jdoe", "workdayID": "wid-1"}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})

	_, err := client.WorkerProfile(context.Background())
	if !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound, got %v", err)
	}
}

func TestResourcePaths(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]string)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Method+" "+r.URL.Path] = r.URL.RawQuery
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := client.LeaveBalances(ctx, "wid-1"); return err },
		func() error { _, err := client.EligibleAbsenceTypes(ctx, "wid-1"); return err },
		func() error { _, err := client.LeavesOfAbsence(ctx, "wid-1"); return err },
		func() error { _, err := client.TimeOffDetails(ctx, "wid-1"); return err },
		func() error { _, err := client.TimeOffEntries(ctx, "wid-1"); return err },
		func() error { _, err := client.InboxTasks(ctx, "wid-1"); return err },
		func() error { _, err := client.DirectReports(ctx, "wid-1"); return err },
		func() error { _, err := client.PaySlips(ctx, "wid-1"); return err },
		func() error { _, err := client.LearningAssignments(ctx, "wid-1"); return err },
		func() error { _, err := client.ContentLessons(ctx, "c-1"); return err },
		func() error { _, err := client.ChangeBusinessTitle(ctx, "wid-1", "Lead"); return err },
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()

	want := map[string]string{
		"GET " + absencePrefix + "/balances":                           "worker=wid-1",
		"GET " + absencePrefix + "/workers/wid-1/eligibleAbsenceTypes": "",
		"GET " + absencePrefix + "/workers/wid-1/leavesOfAbsence":      "",
		"GET " + absencePrefix + "/workers/wid-1/timeOffDetails":       "",
		"GET " + commonPrefix + "/workers/wid-1/timeOffEntries":        "",
		"GET " + commonPrefix + "/workers/wid-1/inboxTasks":            "",
		"GET " + commonPrefix + "/workers/wid-1/directReports":         "",
		"GET " + commonPrefix + "/workers/wid-1/paySlips":              "",
		"GET " + reportPrefix + "/Required_Learning":                   "Worker_s__for_Learning_Assignment%21WID=wid-1&format=json",
		"GET " + learningPrefix + "/content/c-1/lessons":               "",
		"POST " + commonPrefix + "/workers/wid-1/businessTitleChanges": "type=me",
	}
	for key, query := range want {
		got, ok := seen[key]
		if !ok {
			t.Errorf("expected call %s, saw %v", key, seen)
			continue
		}
		if got != query {
			t.Errorf("%s: query = %q, want %q", key, got, query)
		}
	}
}

func TestRequestTimeOffWrapsNonObjectReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Days []TimeOffDay `json:"days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Days) != 1 || body.Days[0].TimeOffType.ID != "type-1" {
			t.Errorf("unexpected days %+v", body.Days)
		}
		writeJSON(w, http.StatusOK, []any{"accepted"})
	})

	result, err := client.RequestTimeOff(context.Background(), "wid-1", []TimeOffDay{{
		Date: "2025-02-10T08:00:00.000Z", DailyQuantity: "8", TimeOffType: TimeOffTypeRef{ID: "type-1"},
	}})
	if err != nil {
		t.Fatalf("request time off: %v", err)
	}
	if _, ok := result["workdayResponse"]; !ok {
		t.Fatalf("expected wrapped reply, got %v", result)
	}
}

func TestSearchLearningContentWrapsNonObjectReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["topics"]; len(got) != 1 || got[0] != "security" {
			t.Errorf("unexpected topics %v", got)
		}
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": "c-1"}})
	})

	result, err := client.SearchLearningContent(context.Background(), nil, []string{"security"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if items := result.List("data"); len(items) != 1 {
		t.Fatalf("expected reply wrapped under data, got %v", result)
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyline/gateway/internal/auth"
	"studyline/gateway/internal/config"
	"studyline/gateway/internal/model"
	"studyline/gateway/internal/studyline"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:  "test-secret",
		JWTIssuer:  "test-issuer",
		SessionTTL: time.Minute,
	}
}

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/get_groups", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Group{{ID: 1, Name: "SE-21", Shift: 1}})
	})
	mux.HandleFunc("/get_teachers", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Teacher{{ID: 7, FullName: "Ivanov I. I."}})
	})
	mux.HandleFunc("/get_schedule/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.ScheduleDay{
			{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
				{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3, StartTime: "08:00", EndTime: "08:45"},
			}},
		})
	})
	mux.HandleFunc("/get_schedule_changes/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.ScheduleChange{
			{ScheduleID: 11, GroupID: 1, Date: "2026-09-07", NewStartTime: "09:00"},
		})
	})
	mux.HandleFunc("/get_subjects_by_group_id/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Subject{{ID: 3, Name: "Math", GroupID: 1}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	upstream := fakeUpstream(t)
	api := studyline.New(upstream.URL, time.Second)
	return NewServer(testConfig(), api, nil, nil)
}

func mintToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.NewSessionToken("test-secret", "test-issuer", time.Minute, auth.Claims{
		TeacherID: 7,
		Role:      role,
		SessionID: "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"Bearer abc":       "abc",
		"bearer abc":       "abc",
		"Basic abc":        "",
		"Bearer":           "",
		"Bearer  spaced  ": "spaced",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEffectiveScheduleEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/1/schedule/effective", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var days []struct {
		Weekday int `json:"weekday"`
		Pairs   []struct {
			StartTime string `json:"start_time"`
			Changed   bool   `json:"changed"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(days) != 1 || len(days[0].Pairs) != 1 {
		t.Fatalf("unexpected view shape %+v", days)
	}
	pair := days[0].Pairs[0]
	if !pair.Changed || pair.StartTime != "09:00" {
		t.Fatalf("expected resolved pair with time override, got %+v", pair)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(`{"name":"SE-22","shift":1}`))
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(`{"name":"SE-22","shift":1}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "teacher"))
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/schedule", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTeacherScheduleEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "teacher"))
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		TeacherID int64 `json:"teacher_id"`
		Days      map[string][]struct {
			Subject   string `json:"subject"`
			Teacher   string `json:"teacher"`
			Group     string `json:"group"`
			StartTime string `json:"start_time"`
			Change    bool   `json:"change"`
		} `json:"days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TeacherID != 7 {
		t.Fatalf("expected teacher id 7, got %d", body.TeacherID)
	}
	monday := body.Days["1"]
	if len(monday) != 1 {
		t.Fatalf("expected 1 entry on monday, got %d", len(monday))
	}
	entry := monday[0]
	if entry.Subject != "Math" || entry.Group != "SE-21" || entry.Teacher != "Ivanov I. I." {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !entry.Change || entry.StartTime != "09:00" {
		t.Fatalf("expected resolved change in teacher view, got %+v", entry)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"login":"admin"`))
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	server := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"login":"admin","password":""}`))
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpstreamErrorRelayed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_schedule/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Group not found"})
	})
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	server := NewServer(testConfig(), studyline.New(upstream.URL, time.Second), nil, nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/9/schedule", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected relayed 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Group not found" {
		t.Fatalf("expected upstream message relayed, got %q", body["error"])
	}
}

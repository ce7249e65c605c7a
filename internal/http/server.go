package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyline/gateway/internal/auth"
	"studyline/gateway/internal/config"
	"studyline/gateway/internal/editor"
	"studyline/gateway/internal/studyline"
)

type Server struct {
	cfg      config.Config
	api      *studyline.Client
	sessions *auth.SessionStore
	drafts   *editor.DraftStore
	validate *validator.Validate
}

func NewServer(cfg config.Config, api *studyline.Client, sessions *auth.SessionStore, drafts *editor.DraftStore) *Server {
	return &Server{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		drafts:   drafts,
		validate: validator.New(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)

	r.Get("/groups", s.handleListGroups)
	r.Get("/groups/{groupID}", s.handleGetGroup)
	r.With(s.authMiddleware, s.requireAdmin).Post("/groups", s.handleAddGroup)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/groups/{groupID}", s.handleEditGroup)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/groups/{groupID}", s.handleDeleteGroup)

	r.Get("/groups/{groupID}/subjects", s.handleListSubjects)
	r.With(s.authMiddleware, s.requireAdmin).Post("/groups/{groupID}/subjects", s.handleAddSubject)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/subjects/{subjectID}", s.handleEditSubject)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/subjects/{subjectID}", s.handleDeleteSubject)

	r.Get("/teachers", s.handleListTeachers)
	r.With(s.authMiddleware).Get("/teachers/{teacherID}", s.handleGetTeacher)
	r.With(s.authMiddleware, s.requireAdmin).Post("/teachers", s.handleAddTeacher)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/teachers/{teacherID}", s.handleDeleteTeacher)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/teachers/{teacherID}/fullname", s.handleUpdateTeacherFullName)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/teachers/{teacherID}/login", s.handleUpdateTeacherLogin)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/teachers/{teacherID}/password", s.handleUpdateTeacherPassword)

	r.Get("/groups/{groupID}/links", s.handleListLinks)
	r.With(s.authMiddleware, s.requireAdmin).Post("/groups/{groupID}/links", s.handleAddLink)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/groups/{groupID}/links", s.handleDeleteLink)

	r.Get("/groups/{groupID}/schedule", s.handleBaseSchedule)
	r.Get("/groups/{groupID}/schedule/effective", s.handleEffectiveSchedule)
	r.With(s.authMiddleware, s.requireAdmin).Post("/groups/{groupID}/schedule/days", s.handleAddDay)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/groups/{groupID}/schedule/days", s.handleEditDay)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/groups/{groupID}/schedule/days/{weekday}", s.handleDeleteDay)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/pairs/{pairID}", s.handleDeletePair)

	r.Get("/groups/{groupID}/changes", s.handleListChanges)
	r.With(s.authMiddleware, s.requireAdmin).Post("/groups/{groupID}/changes", s.handleAddChanges)
	r.With(s.authMiddleware, s.requireAdmin).Patch("/groups/{groupID}/changes", s.handleEditChange)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/groups/{groupID}/changes", s.handleDeleteChanges)

	r.With(s.authMiddleware).Get("/me/schedule", s.handleTeacherSchedule)

	r.With(s.authMiddleware, s.requireAdmin).Post("/groups/{groupID}/notify", s.handleNotifyGroup)
	r.With(s.authMiddleware, s.requireAdmin).Post("/notify/teachers", s.handleNotifyTeachers)

	r.Route("/groups/{groupID}/draft", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireAdmin)
		r.Get("/", s.handleGetDraft)
		r.Delete("/", s.handleDiscardDraft)
		r.Post("/pairs", s.handleDraftAddPair)
		r.Patch("/pairs/{localID}", s.handleDraftEditPair)
		r.Delete("/pairs/{localID}", s.handleDraftRemovePair)
		r.Delete("/days/{weekday}", s.handleDraftRemoveDay)
		r.Post("/move", s.handleDraftMove)
		r.Post("/save", s.handleDraftSave)
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		if !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin_only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

var errSessionExpired = errors.New("session expired")

// upstreamToken resolves the opaque StudyLine token behind the caller's
// session. The token stays server-side; clients only ever hold the gateway
// JWT.
func (s *Server) upstreamToken(ctx context.Context, claims *auth.Claims) (string, error) {
	if s.sessions == nil {
		return "", errors.New("session store unavailable")
	}
	session, ok, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errSessionExpired
	}
	return session.Token, nil
}

func (s *Server) resolveToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return "", false
	}
	token, err := s.upstreamToken(r.Context(), claims)
	if errors.Is(err, errSessionExpired) {
		writeError(w, http.StatusUnauthorized, "session_expired")
		return "", false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return "", false
	}
	return token, true
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeUpstreamError relays a StudyLine error with its original status and
// message; transport failures collapse to 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *studyline.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_unavailable")
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

package http

import (
	"net/http"

	"github.com/google/uuid"

	"studyline/gateway/internal/auth"
)

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	result, err := s.api.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if s.sessions == nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	sessionID := uuid.NewString()
	session := auth.Session{Token: result.Token, TeacherID: result.ID, Role: result.Role}
	if err := s.sessions.Save(r.Context(), sessionID, session); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	token, err := auth.NewSessionToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.SessionTTL, auth.Claims{
		TeacherID: result.ID,
		Role:      result.Role,
		SessionID: sessionID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: result.Role, ID: result.ID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	if s.sessions != nil {
		if session, ok, err := s.sessions.Get(r.Context(), claims.SessionID); err == nil && ok {
			// Best effort: the local session dies regardless of the upstream
			// revocation outcome.
			_ = s.api.Logout(r.Context(), session.Token)
		}
		_ = s.sessions.Delete(r.Context(), claims.SessionID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

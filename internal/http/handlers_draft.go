package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyline/gateway/internal/auth"
	"studyline/gateway/internal/editor"
	"studyline/gateway/internal/studyline"
)

func (s *Server) draftContext(w http.ResponseWriter, r *http.Request) (*auth.Claims, int64, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return nil, 0, false
	}
	if s.drafts == nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return nil, 0, false
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return nil, 0, false
	}
	return claims, groupID, true
}

// requireDraft loads an existing draft; draft mutations never create one
// implicitly, the client opens the editor with GET first.
func (s *Server) requireDraft(w http.ResponseWriter, r *http.Request) (*editor.Week, *auth.Claims, bool) {
	claims, groupID, ok := s.draftContext(w, r)
	if !ok {
		return nil, nil, false
	}
	week, ok, err := s.drafts.Get(r.Context(), claims.SessionID, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return nil, nil, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "draft_not_found")
		return nil, nil, false
	}
	return week, claims, true
}

func (s *Server) persistDraft(w http.ResponseWriter, r *http.Request, claims *auth.Claims, week *editor.Week) bool {
	if err := s.drafts.Save(r.Context(), claims.SessionID, week); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return false
	}
	return true
}

// handleGetDraft returns the caller's draft for a group, seeding it from the
// persisted base week on first access.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	claims, groupID, ok := s.draftContext(w, r)
	if !ok {
		return
	}
	week, found, err := s.drafts.Get(r.Context(), claims.SessionID, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !found {
		group, err := s.api.GroupByID(r.Context(), groupID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		days, err := s.api.Schedule(r.Context(), groupID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		week = editor.NewWeek(group, days)
		if !s.persistDraft(w, r, claims, week) {
			return
		}
	}
	writeJSON(w, http.StatusOK, week)
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	claims, groupID, ok := s.draftContext(w, r)
	if !ok {
		return
	}
	if err := s.drafts.Delete(r.Context(), claims.SessionID, groupID); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

type draftAddPairRequest struct {
	Weekday   int    `json:"weekday" validate:"required,min=1,max=7"`
	TeacherID int64  `json:"teacher_id" validate:"required"`
	SubjectID int64  `json:"subject_id" validate:"required"`
	Cabinet   string `json:"cabinet"`
}

func (s *Server) handleDraftAddPair(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	var req draftAddPairRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pair")
		return
	}
	pair, err := week.Add(req.Weekday, req.TeacherID, req.SubjectID, req.Cabinet)
	if errors.Is(err, editor.ErrDayFull) {
		writeError(w, http.StatusBadRequest, "day_full")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_weekday")
		return
	}
	if !s.persistDraft(w, r, claims, week) {
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

type draftEditPairRequest struct {
	TeacherID *int64  `json:"teacher_id"`
	SubjectID *int64  `json:"subject_id"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Cabinet   *string `json:"cabinet"`
}

func (s *Server) handleDraftEditPair(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	var req draftEditPairRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	pair, err := week.Edit(chi.URLParam(r, "localID"), editor.PairUpdate{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Cabinet:   req.Cabinet,
	})
	if errors.Is(err, editor.ErrPairNotFound) {
		writeError(w, http.StatusNotFound, "pair_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !s.persistDraft(w, r, claims, week) {
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleDraftRemovePair(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	if err := week.Remove(chi.URLParam(r, "localID")); err != nil {
		writeError(w, http.StatusNotFound, "pair_not_found")
		return
	}
	if !s.persistDraft(w, r, claims, week) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDraftRemoveDay(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	weekday, err := pathID(r, "weekday")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_weekday")
		return
	}
	if err := week.RemoveDay(int(weekday)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_weekday")
		return
	}
	if !s.persistDraft(w, r, claims, week) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type draftMoveRequest struct {
	SrcDay   int `json:"src_day" validate:"required,min=1,max=7"`
	SrcIndex int `json:"src_index" validate:"min=0"`
	DstDay   int `json:"dst_day" validate:"required,min=1,max=7"`
	DstIndex int `json:"dst_index" validate:"min=0"`
}

func (s *Server) handleDraftMove(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	var req draftMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_move")
		return
	}
	err := week.Move(req.SrcDay, req.SrcIndex, req.DstDay, req.DstIndex)
	switch {
	case errors.Is(err, editor.ErrDayFull):
		writeError(w, http.StatusBadRequest, "day_full")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_move")
		return
	}
	if !s.persistDraft(w, r, claims, week) {
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// handleDraftSave pushes the draft upstream day by day. On failure the draft
// is kept so the admin can fix the problem and retry; on success it is
// dropped and the base week becomes the saved one.
func (s *Server) handleDraftSave(w http.ResponseWriter, r *http.Request) {
	week, claims, ok := s.requireDraft(w, r)
	if !ok {
		return
	}
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	if err := week.SaveAll(r.Context(), token, s.api); err != nil {
		var apiErr *studyline.APIError
		status := http.StatusBadGateway
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		writeJSON(w, status, map[string]string{"error": "save_failed", "detail": err.Error()})
		return
	}
	if err := s.drafts.Delete(r.Context(), claims.SessionID, week.GroupID); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

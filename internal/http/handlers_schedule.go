package http

import (
	"context"
	"net/http"

	"studyline/gateway/internal/model"
	"studyline/gateway/internal/schedule"
	"studyline/gateway/internal/studyline"
)

func (s *Server) handleBaseSchedule(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	days, err := s.api.Schedule(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule.SortWeek(days))
}

func (s *Server) handleEffectiveSchedule(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	days, err := s.api.Schedule(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	changes, err := s.api.ScheduleChanges(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule.BuildGroupView(days, changes))
}

type dayRequest struct {
	Weekday int                     `json:"weekday" validate:"required,min=1,max=7"`
	Pairs   []studyline.PairPayload `json:"pairs" validate:"required,max=12"`
}

func (s *Server) handleAddDay(w http.ResponseWriter, r *http.Request) {
	s.mutateDay(w, r, s.api.AddPairs, http.StatusCreated, "created")
}

func (s *Server) handleEditDay(w http.ResponseWriter, r *http.Request) {
	s.mutateDay(w, r, s.api.EditPairs, http.StatusOK, "ok")
}

func (s *Server) mutateDay(w http.ResponseWriter, r *http.Request, mutate func(ctx context.Context, token string, day studyline.SchedulePayload) error, status int, result string) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var req dayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_day")
		return
	}
	payload := studyline.SchedulePayload{GroupID: groupID, Weekday: req.Weekday, Pairs: req.Pairs}
	if err := mutate(r.Context(), token, payload); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, status, map[string]string{"status": result})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	weekday, err := pathID(r, "weekday")
	if err != nil || weekday < 1 || weekday > 7 {
		writeError(w, http.StatusBadRequest, "invalid_weekday")
		return
	}
	if err := s.api.DeleteDay(r.Context(), token, groupID, int(weekday)); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeletePair(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	pairID, err := pathID(r, "pairID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pair_id")
		return
	}
	if err := s.api.DeletePair(r.Context(), token, pairID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Schedule changes

func (s *Server) handleListChanges(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	changes, err := s.api.ScheduleChanges(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

type changeRequest struct {
	ScheduleID   int64  `json:"schedule_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	NewSubjectID int64  `json:"new_subject_id"`
	NewTeacherID int64  `json:"new_teacher_id"`
	NewStartTime string `json:"new_start_time"`
	NewEndTime   string `json:"new_end_time"`
	Cabinet      string `json:"cabinet"`
	IsCanceled   bool   `json:"is_canceled"`
}

func (r changeRequest) toModel(groupID int64) model.ScheduleChange {
	return model.ScheduleChange{
		ScheduleID:   r.ScheduleID,
		GroupID:      groupID,
		Date:         r.Date,
		NewSubjectID: r.NewSubjectID,
		NewTeacherID: r.NewTeacherID,
		NewStartTime: r.NewStartTime,
		NewEndTime:   r.NewEndTime,
		Cabinet:      r.Cabinet,
		IsCanceled:   r.IsCanceled,
	}
}

func (s *Server) handleAddChanges(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var reqs []changeRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "empty_changes")
		return
	}
	changes := make([]model.ScheduleChange, 0, len(reqs))
	for _, req := range reqs {
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_change")
			return
		}
		changes = append(changes, req.toModel(groupID))
	}
	if err := s.api.AddScheduleChanges(r.Context(), token, changes); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleEditChange(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var req changeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_change")
		return
	}
	if err := s.api.EditScheduleChanges(r.Context(), token, req.toModel(groupID)); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type deleteChangesRequest struct {
	ScheduleIDs []int64 `json:"schedule_ids" validate:"required,min=1"`
}

func (s *Server) handleDeleteChanges(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	var req deleteChangesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "empty_changes")
		return
	}
	if err := s.api.DeleteScheduleChanges(r.Context(), token, req.ScheduleIDs); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Teacher view

func (s *Server) handleTeacherSchedule(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	groups, err := s.api.Groups(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	teachers, err := s.api.Teachers(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	blocks := make([]schedule.GroupBlock, 0, len(groups))
	for _, group := range groups {
		days, err := s.api.Schedule(r.Context(), group.ID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		changes, err := s.api.ScheduleChanges(r.Context(), group.ID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		subjects, err := s.api.SubjectsByGroup(r.Context(), group.ID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		blocks = append(blocks, schedule.GroupBlock{Group: group, Days: days, Changes: changes, Subjects: subjects})
	}

	view := schedule.BuildTeacherView(claims.TeacherID, blocks, teachers)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teacher_id": claims.TeacherID,
		"days":       view,
	})
}

// Notifications

func (s *Server) handleNotifyGroup(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	if err := s.api.NotifyGroup(r.Context(), token, groupID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type notifyTeachersRequest struct {
	TeacherIDs []int64 `json:"teacher_ids" validate:"required,min=1"`
}

func (s *Server) handleNotifyTeachers(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	var req notifyTeachersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "empty_teachers")
		return
	}
	if err := s.api.NotifyTeachers(r.Context(), token, req.TeacherIDs); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

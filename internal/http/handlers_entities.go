package http

import (
	"context"
	"net/http"

	"studyline/gateway/internal/model"
)

// Groups

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.api.Groups(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	group, err := s.api.GroupByID(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type addGroupRequest struct {
	Name  string `json:"name" validate:"required"`
	Shift int    `json:"shift" validate:"required,oneof=1 2"`
}

func (s *Server) handleAddGroup(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	var req addGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group")
		return
	}
	if err := s.api.AddGroup(r.Context(), token, req.Name, req.Shift); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type editGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

func (s *Server) handleEditGroup(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var req editGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group")
		return
	}
	if err := s.api.EditGroup(r.Context(), token, groupID, req.Name); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	if err := s.api.DeleteGroup(r.Context(), token, groupID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Subjects

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	subjects, err := s.api.SubjectsByGroup(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

type addSubjectRequest struct {
	Name string `json:"name" validate:"required"`
}

func (s *Server) handleAddSubject(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var req addSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_subject")
		return
	}
	if err := s.api.AddSubject(r.Context(), token, req.Name, groupID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type editSubjectRequest struct {
	NewName string `json:"new_name" validate:"required"`
}

func (s *Server) handleEditSubject(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_subject_id")
		return
	}
	var req editSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_subject")
		return
	}
	if err := s.api.EditSubject(r.Context(), token, subjectID, req.NewName); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_subject_id")
		return
	}
	if err := s.api.DeleteSubject(r.Context(), token, subjectID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Teachers

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.api.Teachers(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	teacherID, err := pathID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_teacher_id")
		return
	}
	teacher, err := s.api.TeacherByID(r.Context(), token, teacherID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}

type addTeacherRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

func (s *Server) handleAddTeacher(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	var req addTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_teacher")
		return
	}
	if err := s.api.AddTeacher(r.Context(), token, req.Login, req.Password, req.FullName); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	teacherID, err := pathID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_teacher_id")
		return
	}
	if err := s.api.DeleteTeacher(r.Context(), token, teacherID); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type updateTeacherFieldRequest struct {
	Value string `json:"value" validate:"required"`
}

func (s *Server) handleUpdateTeacherFullName(w http.ResponseWriter, r *http.Request) {
	s.updateTeacherField(w, r, s.api.UpdateTeacherFullName)
}

func (s *Server) handleUpdateTeacherLogin(w http.ResponseWriter, r *http.Request) {
	s.updateTeacherField(w, r, s.api.UpdateTeacherLogin)
}

func (s *Server) handleUpdateTeacherPassword(w http.ResponseWriter, r *http.Request) {
	s.updateTeacherField(w, r, s.api.UpdateTeacherPassword)
}

func (s *Server) updateTeacherField(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, token string, id int64, value string) error) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	teacherID, err := pathID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_teacher_id")
		return
	}
	var req updateTeacherFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "missing_value")
		return
	}
	if err := update(r.Context(), token, teacherID, req.Value); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Teacher links

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	links, err := s.api.TeacherLinks(r.Context(), groupID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

type linkRequest struct {
	TeacherID int64 `json:"teacher_id" validate:"required"`
	SubjectID int64 `json:"subject_id" validate:"required"`
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	s.mutateLink(w, r, s.api.AddTeacherLink, http.StatusCreated, "created")
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	s.mutateLink(w, r, s.api.DeleteTeacherLink, http.StatusOK, "ok")
}

func (s *Server) mutateLink(w http.ResponseWriter, r *http.Request, mutate func(ctx context.Context, token string, link model.TeacherLink) error, status int, result string) {
	token, ok := s.resolveToken(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_group_id")
		return
	}
	var req linkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_link")
		return
	}
	link := model.TeacherLink{TeacherID: req.TeacherID, GroupID: groupID, SubjectID: req.SubjectID}
	if err := mutate(r.Context(), token, link); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, status, map[string]string{"status": result})
}

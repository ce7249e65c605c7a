package studyline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyline/gateway/internal/model"
)

// Client talks to the StudyLine core API, which owns all persistence and
// business rules. The gateway fetches on demand and never treats a response
// as authoritative state to cache.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError carries the upstream status code and error message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("studyline api: %d %s", e.Status, e.Message)
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
}

func (c *Client) Login(ctx context.Context, login, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/login", "", map[string]string{"login": login, "password": password}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, map[string]string{"token": token}, nil)
}

func (c *Client) Groups(ctx context.Context) ([]model.Group, error) {
	var out []model.Group
	err := c.do(ctx, http.MethodGet, "/get_groups", "", nil, &out)
	return out, err
}

func (c *Client) GroupByID(ctx context.Context, id int64) (model.Group, error) {
	var out model.Group
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_group_by_id/%d", id), "", nil, &out)
	return out, err
}

func (c *Client) AddGroup(ctx context.Context, token, name string, shift int) error {
	return c.do(ctx, http.MethodPost, "/add_group", token, map[string]any{"name": name, "shift": shift}, nil)
}

func (c *Client) EditGroup(ctx context.Context, token string, id int64, name string) error {
	return c.do(ctx, http.MethodPatch, "/edit_group", token, map[string]any{"id": id, "name": name}, nil)
}

func (c *Client) DeleteGroup(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_group/%d", id), token, nil, nil)
}

func (c *Client) SubjectsByGroup(ctx context.Context, groupID int64) ([]model.Subject, error) {
	var out []model.Subject
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_subjects_by_group_id/%d", groupID), "", nil, &out)
	return out, err
}

func (c *Client) AddSubject(ctx context.Context, token, name string, groupID int64) error {
	return c.do(ctx, http.MethodPost, "/add_subject", token, map[string]any{"name": name, "group_id": groupID}, nil)
}

func (c *Client) EditSubject(ctx context.Context, token string, id int64, newName string) error {
	return c.do(ctx, http.MethodPatch, "/edit_subject", token, map[string]any{"id": id, "new_name": newName}, nil)
}

func (c *Client) DeleteSubject(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_subject/%d", id), token, nil, nil)
}

func (c *Client) Teachers(ctx context.Context) ([]model.Teacher, error) {
	var out []model.Teacher
	err := c.do(ctx, http.MethodGet, "/get_teachers", "", nil, &out)
	return out, err
}

func (c *Client) TeacherByID(ctx context.Context, token string, id int64) (model.Teacher, error) {
	var out model.Teacher
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_teacher_by_id/%d", id), token, nil, &out)
	return out, err
}

func (c *Client) AddTeacher(ctx context.Context, token, login, password, fullName string) error {
	return c.do(ctx, http.MethodPost, "/add_teacher", token, map[string]string{
		"login":     login,
		"password":  password,
		"full_name": fullName,
	}, nil)
}

func (c *Client) DeleteTeacher(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_teacher/%d", id), token, nil, nil)
}

func (c *Client) UpdateTeacherFullName(ctx context.Context, token string, id int64, fullName string) error {
	return c.do(ctx, http.MethodPatch, "/update_teacher_fullname", token, map[string]any{"id": id, "full_name": fullName}, nil)
}

func (c *Client) UpdateTeacherLogin(ctx context.Context, token string, id int64, login string) error {
	return c.do(ctx, http.MethodPatch, "/update_teacher_login", token, map[string]any{"id": id, "login": login}, nil)
}

func (c *Client) UpdateTeacherPassword(ctx context.Context, token string, id int64, password string) error {
	return c.do(ctx, http.MethodPatch, "/update_teacher_password", token, map[string]any{"id": id, "password": password}, nil)
}

func (c *Client) TeacherLinks(ctx context.Context, groupID int64) ([]model.TeacherLink, error) {
	var out []model.TeacherLink
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_teacher_links/%d", groupID), "", nil, &out)
	return out, err
}

func (c *Client) AddTeacherLink(ctx context.Context, token string, link model.TeacherLink) error {
	return c.do(ctx, http.MethodPost, "/add_teacher_link", token, link, nil)
}

func (c *Client) DeleteTeacherLink(ctx context.Context, token string, link model.TeacherLink) error {
	return c.do(ctx, http.MethodDelete, "/delete_teacher_link", token, link, nil)
}

func (c *Client) Schedule(ctx context.Context, groupID int64) ([]model.ScheduleDay, error) {
	var out []model.ScheduleDay
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_schedule/%d", groupID), "", nil, &out)
	return out, err
}

// SchedulePayload is the wire shape for add_pairs/edit_pairs: a full day
// replacement for one group.
type SchedulePayload struct {
	GroupID int64         `json:"group_id"`
	Weekday int           `json:"weekday"`
	Pairs   []PairPayload `json:"pairs"`
}

// PairPayload mirrors model.Pair but drops the id for pairs the API has not
// assigned one yet.
type PairPayload struct {
	ID         *int64 `json:"id,omitempty"`
	PairNumber int    `json:"pair_number"`
	TeacherID  int64  `json:"teacher_id"`
	SubjectID  int64  `json:"subject_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Cabinet    string `json:"cabinet"`
}

func (c *Client) AddPairs(ctx context.Context, token string, day SchedulePayload) error {
	return c.do(ctx, http.MethodPost, "/add_pairs", token, day, nil)
}

func (c *Client) EditPairs(ctx context.Context, token string, day SchedulePayload) error {
	return c.do(ctx, http.MethodPatch, "/edit_pairs", token, day, nil)
}

func (c *Client) DeleteDay(ctx context.Context, token string, groupID int64, weekday int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_day/%d/%d", groupID, weekday), token, nil, nil)
}

func (c *Client) DeletePair(ctx context.Context, token string, pairID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_pair/%d", pairID), token, nil, nil)
}

func (c *Client) ScheduleChanges(ctx context.Context, groupID int64) ([]model.ScheduleChange, error) {
	var out []model.ScheduleChange
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_schedule_changes/%d", groupID), "", nil, &out)
	return out, err
}

func (c *Client) AddScheduleChanges(ctx context.Context, token string, changes []model.ScheduleChange) error {
	return c.do(ctx, http.MethodPost, "/add_schedule_changes", token, changes, nil)
}

func (c *Client) EditScheduleChanges(ctx context.Context, token string, change model.ScheduleChange) error {
	return c.do(ctx, http.MethodPatch, "/edit_schedule_changes", token, change, nil)
}

func (c *Client) DeleteScheduleChanges(ctx context.Context, token string, scheduleIDs []int64) error {
	return c.do(ctx, http.MethodDelete, "/delete_schedule_changes", token, scheduleIDs, nil)
}

func (c *Client) NotifyGroup(ctx context.Context, token string, groupID int64) error {
	return c.do(ctx, http.MethodPost, "/send_notifications_to_group", token, map[string]any{"group_id": groupID}, nil)
}

func (c *Client) NotifyTeachers(ctx context.Context, token string, teacherIDs []int64) error {
	return c.do(ctx, http.MethodPost, "/send_notifications_to_teachers", token, map[string]any{"teacher_ids": teacherIDs}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	message := strings.TrimSpace(string(data))
	if message == "" {
		message = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}

package model

// Group of students. Shift selects the time-slot table used to derive pair
// times from position: 1 is the morning band, 2 the afternoon band.
type Group struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Shift int    `json:"shift"`
}

type Teacher struct {
	ID       int64  `json:"id"`
	Login    string `json:"login,omitempty"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// Subject is scoped to a single group.
type Subject struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
}

// TeacherLink asserts that a teacher is authorized to teach a subject for a
// group.
type TeacherLink struct {
	TeacherID int64 `json:"teacher_id"`
	GroupID   int64 `json:"group_id"`
	SubjectID int64 `json:"subject_id"`
}

// Pair is one scheduled lesson slot at a 1-based position within its day.
// A pair that has not been persisted yet carries a negative placeholder id
// until the API assigns a real one.
type Pair struct {
	ID         int64  `json:"id"`
	PairNumber int    `json:"pair_number"`
	TeacherID  int64  `json:"teacher_id"`
	SubjectID  int64  `json:"subject_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Cabinet    string `json:"cabinet,omitempty"`
}

// ScheduleDay is one weekday bucket of a group's base week. Weekday runs
// 1..7, Monday first.
type ScheduleDay struct {
	GroupID int64  `json:"group_id"`
	Weekday int    `json:"weekday"`
	Pairs   []Pair `json:"pairs"`
}

// ScheduleChange overrides or cancels one base pair on a given date.
// ScheduleID references Pair.ID. Zero-valued override fields mean "keep the
// base value"; the upstream API stores them as non-nullable columns.
type ScheduleChange struct {
	ScheduleID   int64  `json:"schedule_id"`
	GroupID      int64  `json:"group_id"`
	Date         string `json:"date"`
	NewSubjectID int64  `json:"new_subject_id"`
	NewTeacherID int64  `json:"new_teacher_id"`
	NewStartTime string `json:"new_start_time"`
	NewEndTime   string `json:"new_end_time"`
	Cabinet      string `json:"cabinet,omitempty"`
	IsCanceled   bool   `json:"is_canceled"`
}

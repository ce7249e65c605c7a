package schedule

import (
	"testing"

	"studyline/gateway/internal/model"
)

var testTeachers = []model.Teacher{
	{ID: 7, FullName: "Ivanov I. I."},
	{ID: 9, FullName: "Petrova A. S."},
}

func oneBlock(days []model.ScheduleDay, changes []model.ScheduleChange) []GroupBlock {
	return []GroupBlock{{
		Group:   model.Group{ID: 1, Name: "SE-21", Shift: 1},
		Days:    days,
		Changes: changes,
		Subjects: []model.Subject{
			{ID: 3, Name: "Math", GroupID: 1},
			{ID: 5, Name: "Physics", GroupID: 1},
		},
	}}
}

func TestTeacherViewUnchangedPair(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3, StartTime: "08:00", EndTime: "08:45", Cabinet: "204"},
		{ID: 12, PairNumber: 2, TeacherID: 9, SubjectID: 5},
	}}}
	view := BuildTeacherView(7, oneBlock(days, nil), testTeachers)
	monday := view[1]
	if len(monday) != 1 {
		t.Fatalf("expected 1 entry for teacher 7, got %d", len(monday))
	}
	entry := monday[0]
	if entry.Subject != "Math" || entry.Teacher != "Ivanov I. I." || entry.Group != "SE-21" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Change || entry.Canceled {
		t.Fatalf("plain pair must not carry change flags: %+v", entry)
	}
}

func TestTeacherViewReassignmentExclusivity(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 2, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3, StartTime: "08:00", EndTime: "08:45"},
	}}}
	changes := []model.ScheduleChange{
		{ScheduleID: 11, NewTeacherID: 9, NewSubjectID: 5, Date: "2026-09-08"},
	}

	original := BuildTeacherView(7, oneBlock(days, changes), testTeachers)
	if len(original[2]) != 0 {
		t.Fatalf("reassigned pair must leave the original teacher's view, got %d entries", len(original[2]))
	}

	target := BuildTeacherView(9, oneBlock(days, changes), testTeachers)
	if len(target[2]) != 1 {
		t.Fatalf("expected reassigned pair in target teacher's view, got %d", len(target[2]))
	}
	entry := target[2][0]
	if !entry.Change || entry.Canceled {
		t.Fatalf("expected change-marked entry, got %+v", entry)
	}
	if entry.Subject != "Physics" {
		t.Fatalf("reassignment must take the change's subject, got %q", entry.Subject)
	}
	if entry.Teacher != "Petrova A. S." {
		t.Fatalf("unexpected teacher name %q", entry.Teacher)
	}
	if entry.Date != "2026-09-08" {
		t.Fatalf("expected change date carried, got %q", entry.Date)
	}
}

func TestTeacherViewReassignmentWithoutSubject(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3},
	}}}
	changes := []model.ScheduleChange{{ScheduleID: 11, NewTeacherID: 9}}
	view := BuildTeacherView(9, oneBlock(days, changes), testTeachers)
	if len(view[1]) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(view[1]))
	}
	if view[1][0].Subject != "—" {
		t.Fatalf("reassignment without a subject must show the fallback, got %q", view[1][0].Subject)
	}
}

func TestTeacherViewCanceledPair(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3, StartTime: "08:00", EndTime: "08:45"},
	}}}
	changes := []model.ScheduleChange{{ScheduleID: 11, IsCanceled: true, Date: "2026-09-07"}}
	view := BuildTeacherView(7, oneBlock(days, changes), testTeachers)
	if len(view[1]) != 1 {
		t.Fatalf("canceled pair must stay visible to its teacher, got %d entries", len(view[1]))
	}
	entry := view[1][0]
	if !entry.Canceled || !entry.Change {
		t.Fatalf("expected canceled+change, got %+v", entry)
	}
	if entry.Subject != "Math" || entry.Teacher != "Ivanov I. I." {
		t.Fatalf("cancellation keeps base names, got %+v", entry)
	}
}

func TestTeacherViewStillMineWithFieldChange(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3, StartTime: "08:00", EndTime: "08:45", Cabinet: "204"},
	}}}
	changes := []model.ScheduleChange{{ScheduleID: 11, NewStartTime: "09:00", Cabinet: "310"}}
	view := BuildTeacherView(7, oneBlock(days, changes), testTeachers)
	entry := view[1][0]
	if !entry.Change || entry.Canceled {
		t.Fatalf("expected non-canceled change, got %+v", entry)
	}
	if entry.StartTime != "09:00" || entry.EndTime != "08:45" {
		t.Fatalf("expected start override only, got %s-%s", entry.StartTime, entry.EndTime)
	}
	if entry.Cabinet != "310" {
		t.Fatalf("expected cabinet override, got %q", entry.Cabinet)
	}
	if entry.Subject != "Math" {
		t.Fatalf("expected base subject kept, got %q", entry.Subject)
	}
}

func TestTeacherViewLastChangeWins(t *testing.T) {
	days := []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
		{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 3},
	}}}
	changes := []model.ScheduleChange{
		{ScheduleID: 11, NewTeacherID: 9},
		{ScheduleID: 11, IsCanceled: true},
	}
	view := BuildTeacherView(7, oneBlock(days, changes), testTeachers)
	if len(view[1]) != 1 || !view[1][0].Canceled {
		t.Fatalf("expected the later cancellation to win, got %+v", view[1])
	}
}

func TestTeacherViewSortsAndFlagsParallel(t *testing.T) {
	blocks := []GroupBlock{
		{
			Group: model.Group{ID: 1, Name: "SE-21"},
			Days: []model.ScheduleDay{{GroupID: 1, Weekday: 4, Pairs: []model.Pair{
				{ID: 21, PairNumber: 3, TeacherID: 7, SubjectID: 3, StartTime: "09:50", EndTime: "10:35"},
			}}},
			Subjects: []model.Subject{{ID: 3, Name: "Math"}},
		},
		{
			Group: model.Group{ID: 2, Name: "SE-22"},
			Days: []model.ScheduleDay{{GroupID: 2, Weekday: 4, Pairs: []model.Pair{
				{ID: 31, PairNumber: 1, TeacherID: 7, SubjectID: 5, StartTime: "08:00", EndTime: "08:45"},
				{ID: 32, PairNumber: 3, TeacherID: 7, SubjectID: 5, StartTime: "09:50", EndTime: "10:35"},
			}}},
			Subjects: []model.Subject{{ID: 5, Name: "Physics"}},
		},
	}
	view := BuildTeacherView(7, blocks, testTeachers)
	thursday := view[4]
	if len(thursday) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(thursday))
	}
	if thursday[0].PairNumber != 1 {
		t.Fatalf("expected entries sorted by pair number, got %d first", thursday[0].PairNumber)
	}
	if thursday[0].Parallel {
		t.Fatalf("lone slot must not be flagged parallel")
	}
	if !thursday[1].Parallel || !thursday[2].Parallel {
		t.Fatalf("expected both same-slot entries flagged, got %+v", thursday[1:])
	}
}

func TestTeacherViewEmptyDaysPresent(t *testing.T) {
	view := BuildTeacherView(7, nil, nil)
	for day := 1; day <= 7; day++ {
		entries, ok := view[day]
		if !ok {
			t.Fatalf("day %d missing from view", day)
		}
		if len(entries) != 0 {
			t.Fatalf("day %d should be empty, got %d entries", day, len(entries))
		}
	}
}

func TestTeacherViewMissingLookupFallback(t *testing.T) {
	blocks := []GroupBlock{{
		Group: model.Group{ID: 1, Name: "SE-21"},
		Days: []model.ScheduleDay{{GroupID: 1, Weekday: 1, Pairs: []model.Pair{
			{ID: 11, PairNumber: 1, TeacherID: 7, SubjectID: 42},
		}}},
	}}
	view := BuildTeacherView(7, blocks, nil)
	entry := view[1][0]
	if entry.Subject != "—" || entry.Teacher != "—" {
		t.Fatalf("expected display fallbacks, got subject=%q teacher=%q", entry.Subject, entry.Teacher)
	}
}

package schedule

import (
	"sort"

	"studyline/gateway/internal/model"
)

const displayNone = "—"

// GroupBlock bundles everything fetched for one group while assembling a
// teacher's cross-group week.
type GroupBlock struct {
	Group    model.Group
	Days     []model.ScheduleDay
	Changes  []model.ScheduleChange
	Subjects []model.Subject
}

// TeacherEntry is one lesson in a teacher's merged weekly view. Names are
// resolved for display; missing lookups render as an em dash.
type TeacherEntry struct {
	PairNumber int    `json:"pair_number"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Subject    string `json:"subject"`
	Teacher    string `json:"teacher"`
	Group      string `json:"group"`
	Cabinet    string `json:"cabinet,omitempty"`
	Date       string `json:"date,omitempty"`
	Canceled   bool   `json:"canceled"`
	Change     bool   `json:"change"`
	Parallel   bool   `json:"parallel"`
}

// BuildTeacherView assembles a teacher's effective week across every group.
// A pair contributes an entry when the teacher either owns the base pair or
// is the reassignment target of its authoritative change; reassignment away
// removes the pair from the original teacher's view. Entries are bucketed by
// weekday 1..7, sorted by pair number, and flagged when two entries of the
// same day share an exact time slot.
func BuildTeacherView(teacherID int64, blocks []GroupBlock, teachers []model.Teacher) map[int][]TeacherEntry {
	teacherNames := make(map[int64]string, len(teachers))
	for _, t := range teachers {
		teacherNames[t.ID] = t.FullName
	}
	subjectNames := make(map[int64]string)
	for _, block := range blocks {
		for _, subject := range block.Subjects {
			subjectNames[subject.ID] = subject.Name
		}
	}

	byDay := make(map[int][]TeacherEntry, 7)
	for day := 1; day <= 7; day++ {
		byDay[day] = []TeacherEntry{}
	}

	for _, block := range blocks {
		byPair := GroupChanges(block.Changes)
		for _, day := range block.Days {
			if day.Weekday < 1 || day.Weekday > 7 {
				continue
			}
			for _, pair := range day.Pairs {
				entry, ok := classify(teacherID, block.Group.Name, pair, byPair[pair.ID], subjectNames, teacherNames)
				if !ok {
					continue
				}
				byDay[day.Weekday] = append(byDay[day.Weekday], entry)
			}
		}
	}

	for day := 1; day <= 7; day++ {
		entries := byDay[day]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].PairNumber < entries[j].PairNumber })
		markParallel(entries)
		byDay[day] = entries
	}
	return byDay
}

func classify(teacherID int64, groupName string, pair model.Pair, changes []model.ScheduleChange, subjects, teachers map[int64]string) (TeacherEntry, bool) {
	if len(changes) == 0 {
		if pair.TeacherID != teacherID {
			return TeacherEntry{}, false
		}
		return TeacherEntry{
			PairNumber: pair.PairNumber,
			StartTime:  pair.StartTime,
			EndTime:    pair.EndTime,
			Subject:    lookupName(subjects, pair.SubjectID),
			Teacher:    lookupName(teachers, pair.TeacherID),
			Group:      groupName,
			Cabinet:    pair.Cabinet,
		}, true
	}

	last := changes[len(changes)-1]
	entry := TeacherEntry{
		PairNumber: pair.PairNumber,
		StartTime:  override(last.NewStartTime, pair.StartTime),
		EndTime:    override(last.NewEndTime, pair.EndTime),
		Group:      groupName,
		Cabinet:    override(last.Cabinet, pair.Cabinet),
		Date:       last.Date,
		Change:     true,
	}

	switch {
	case last.IsCanceled && pair.TeacherID == teacherID:
		entry.Subject = lookupName(subjects, last.NewSubjectID)
		if entry.Subject == displayNone {
			entry.Subject = lookupName(subjects, pair.SubjectID)
		}
		entry.Teacher = lookupName(teachers, pair.TeacherID)
		entry.Canceled = true
		return entry, true
	case !last.IsCanceled && last.NewTeacherID == teacherID:
		// Reassigned here: the subject comes strictly from the change, even
		// when the base pair has one.
		entry.Subject = lookupName(subjects, last.NewSubjectID)
		entry.Teacher = lookupName(teachers, last.NewTeacherID)
		return entry, true
	case !last.IsCanceled && last.NewTeacherID == 0 && pair.TeacherID == teacherID:
		entry.Subject = lookupName(subjects, last.NewSubjectID)
		if entry.Subject == displayNone {
			entry.Subject = lookupName(subjects, pair.SubjectID)
		}
		entry.Teacher = lookupName(teachers, pair.TeacherID)
		return entry, true
	}
	return TeacherEntry{}, false
}

func lookupName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return displayNone
}

func override(value, base string) string {
	if value != "" {
		return value
	}
	return base
}

// markParallel flags every entry sharing an exact (start, end) slot with
// another entry of the same day.
func markParallel(entries []TeacherEntry) {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].StartTime == entries[j].StartTime && entries[i].EndTime == entries[j].EndTime {
				entries[i].Parallel = true
				entries[j].Parallel = true
			}
		}
	}
}

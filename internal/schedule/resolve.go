package schedule

import (
	"sort"

	"studyline/gateway/internal/model"
)

// EffectivePair is the display state of one base pair after its change
// record, if any, has been applied.
type EffectivePair struct {
	model.Pair
	Changed    bool `json:"changed"`
	IsCanceled bool `json:"is_canceled"`
}

// EffectiveDay mirrors model.ScheduleDay with resolved pairs.
type EffectiveDay struct {
	GroupID int64           `json:"group_id"`
	Weekday int             `json:"weekday"`
	Pairs   []EffectivePair `json:"pairs"`
}

// Resolve merges one base pair with the change records referencing it. The
// slice keeps the upstream arrival order and the last element is
// authoritative. Zero-valued override fields keep the base value. An empty
// slice returns the pair verbatim with Changed false.
func Resolve(pair model.Pair, changes []model.ScheduleChange) EffectivePair {
	if len(changes) == 0 {
		return EffectivePair{Pair: pair}
	}
	last := changes[len(changes)-1]
	out := EffectivePair{Pair: pair, Changed: true, IsCanceled: last.IsCanceled}
	if last.NewSubjectID != 0 {
		out.SubjectID = last.NewSubjectID
	}
	if last.NewTeacherID != 0 {
		out.TeacherID = last.NewTeacherID
	}
	if last.NewStartTime != "" {
		out.StartTime = last.NewStartTime
	}
	if last.NewEndTime != "" {
		out.EndTime = last.NewEndTime
	}
	if last.Cabinet != "" {
		out.Cabinet = last.Cabinet
	}
	return out
}

// GroupChanges buckets change records by the base pair they reference,
// preserving arrival order within each bucket. Records whose schedule_id
// matches no pair simply end up in a bucket nobody reads.
func GroupChanges(changes []model.ScheduleChange) map[int64][]model.ScheduleChange {
	byPair := make(map[int64][]model.ScheduleChange)
	for _, change := range changes {
		byPair[change.ScheduleID] = append(byPair[change.ScheduleID], change)
	}
	return byPair
}

// BuildGroupView resolves a group's whole base week against its change
// records. Output cardinality equals input cardinality: one EffectiveDay per
// day, one EffectivePair per pair. Days come out ordered by weekday and
// pairs by pair number regardless of upstream ordering.
func BuildGroupView(days []model.ScheduleDay, changes []model.ScheduleChange) []EffectiveDay {
	byPair := GroupChanges(changes)
	out := make([]EffectiveDay, 0, len(days))
	for _, day := range days {
		pairs := append([]model.Pair(nil), day.Pairs...)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].PairNumber < pairs[j].PairNumber })
		resolved := make([]EffectivePair, 0, len(pairs))
		for _, pair := range pairs {
			resolved = append(resolved, Resolve(pair, byPair[pair.ID]))
		}
		out = append(out, EffectiveDay{GroupID: day.GroupID, Weekday: day.Weekday, Pairs: resolved})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out
}

// SortWeek orders days by weekday and each day's pairs by pair number
// without touching the input slices.
func SortWeek(days []model.ScheduleDay) []model.ScheduleDay {
	out := make([]model.ScheduleDay, 0, len(days))
	for _, day := range days {
		pairs := append([]model.Pair(nil), day.Pairs...)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].PairNumber < pairs[j].PairNumber })
		day.Pairs = pairs
		out = append(out, day)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out
}

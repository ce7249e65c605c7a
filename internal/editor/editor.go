package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"studyline/gateway/internal/model"
	"studyline/gateway/internal/schedule"
	"studyline/gateway/internal/studyline"
)

var (
	ErrDayFull      = errors.New("day already holds the maximum number of pairs")
	ErrPairNotFound = errors.New("pair not found in draft")
	ErrInvalidMove  = errors.New("invalid move")
	ErrBadWeekday   = errors.New("weekday out of range")
)

// DraftPair wraps a base pair with draft bookkeeping. LocalID identifies the
// pair across reorders before the API has assigned a real id. TimeOverride
// marks start/end as manually edited; it is cleared whenever the pair is
// repositioned and its times re-derived from the shift table.
type DraftPair struct {
	model.Pair
	LocalID      string `json:"local_id"`
	TimeOverride bool   `json:"time_override"`
}

// Week is one group's draft of its base schedule. The upstream schedule is
// untouched until SaveAll; the draft lives server-side so an unsaved edit
// survives a page reload.
type Week struct {
	GroupID int64               `json:"group_id"`
	Shift   int                 `json:"shift"`
	Days    map[int][]DraftPair `json:"days"`
	// NextPlaceholder is the id the next pending pair will get; always
	// negative so it can never collide with an API-assigned id.
	NextPlaceholder int64 `json:"next_placeholder"`
}

// NewWeek seeds a draft from the group's persisted base week.
func NewWeek(group model.Group, days []model.ScheduleDay) *Week {
	w := &Week{
		GroupID:         group.ID,
		Shift:           group.Shift,
		Days:            make(map[int][]DraftPair, 7),
		NextPlaceholder: -1,
	}
	for _, day := range days {
		pairs := append([]model.Pair(nil), day.Pairs...)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].PairNumber < pairs[j].PairNumber })
		list := make([]DraftPair, 0, len(pairs))
		for _, pair := range pairs {
			list = append(list, DraftPair{Pair: pair, LocalID: uuid.NewString()})
		}
		w.Days[day.Weekday] = list
	}
	return w
}

// Add appends a pending pair to the end of a day. Times are derived from the
// group's shift and the new position. The day cap is enforced before
// anything is allocated.
func (w *Week) Add(weekday int, teacherID, subjectID int64, cabinet string) (DraftPair, error) {
	if weekday < 1 || weekday > 7 {
		return DraftPair{}, ErrBadWeekday
	}
	list := w.Days[weekday]
	if len(list) >= schedule.MaxPairsPerDay {
		return DraftPair{}, ErrDayFull
	}
	position := len(list) + 1
	start, end := schedule.PairTimes(w.Shift, position)
	pair := DraftPair{
		Pair: model.Pair{
			ID:         w.NextPlaceholder,
			PairNumber: position,
			TeacherID:  teacherID,
			SubjectID:  subjectID,
			StartTime:  start,
			EndTime:    end,
			Cabinet:    cabinet,
		},
		LocalID: uuid.NewString(),
	}
	w.NextPlaceholder--
	w.Days[weekday] = append(list, pair)
	return pair, nil
}

// PairUpdate carries editable fields; nil means leave unchanged.
type PairUpdate struct {
	TeacherID *int64
	SubjectID *int64
	StartTime *string
	EndTime   *string
	Cabinet   *string
}

// Edit updates a pair in place. An explicit start or end time marks the pair
// as manually timed, exempting it from derivation until the next move.
func (w *Week) Edit(localID string, update PairUpdate) (DraftPair, error) {
	for weekday, list := range w.Days {
		for i := range list {
			if list[i].LocalID != localID {
				continue
			}
			if update.TeacherID != nil {
				list[i].TeacherID = *update.TeacherID
			}
			if update.SubjectID != nil {
				list[i].SubjectID = *update.SubjectID
			}
			if update.Cabinet != nil {
				list[i].Cabinet = *update.Cabinet
			}
			if update.StartTime != nil || update.EndTime != nil {
				if update.StartTime != nil {
					list[i].StartTime = *update.StartTime
				}
				if update.EndTime != nil {
					list[i].EndTime = *update.EndTime
				}
				list[i].TimeOverride = true
			}
			w.Days[weekday] = list
			return list[i], nil
		}
	}
	return DraftPair{}, ErrPairNotFound
}

// Remove deletes a pair and renumbers the rest of its day.
func (w *Week) Remove(localID string) error {
	for weekday, list := range w.Days {
		for i := range list {
			if list[i].LocalID != localID {
				continue
			}
			list = append(list[:i], list[i+1:]...)
			w.Days[weekday] = w.renumber(list)
			return nil
		}
	}
	return ErrPairNotFound
}

// RemoveDay drops a whole day from the draft.
func (w *Week) RemoveDay(weekday int) error {
	if weekday < 1 || weekday > 7 {
		return ErrBadWeekday
	}
	delete(w.Days, weekday)
	return nil
}

// Move repositions a pair within or across days. Every affected day is
// renumbered to a contiguous 1..N sequence and its times re-derived from the
// shift table; manual time overrides do not survive a reposition.
func (w *Week) Move(srcDay, srcIndex, dstDay, dstIndex int) error {
	if srcDay < 1 || srcDay > 7 || dstDay < 1 || dstDay > 7 {
		return ErrBadWeekday
	}
	src := w.Days[srcDay]
	if srcIndex < 0 || srcIndex >= len(src) {
		return ErrInvalidMove
	}
	if srcDay == dstDay {
		if dstIndex < 0 || dstIndex >= len(src) {
			return ErrInvalidMove
		}
		moved := src[srcIndex]
		src = append(src[:srcIndex], src[srcIndex+1:]...)
		src = insertPair(src, dstIndex, moved)
		w.Days[srcDay] = w.renumber(src)
		return nil
	}
	dst := w.Days[dstDay]
	if dstIndex < 0 || dstIndex > len(dst) {
		return ErrInvalidMove
	}
	if len(dst) >= schedule.MaxPairsPerDay {
		return ErrDayFull
	}
	moved := src[srcIndex]
	src = append(src[:srcIndex], src[srcIndex+1:]...)
	dst = insertPair(dst, dstIndex, moved)
	w.Days[srcDay] = w.renumber(src)
	w.Days[dstDay] = w.renumber(dst)
	return nil
}

func insertPair(list []DraftPair, index int, pair DraftPair) []DraftPair {
	list = append(list, DraftPair{})
	copy(list[index+1:], list[index:])
	list[index] = pair
	return list
}

func (w *Week) renumber(list []DraftPair) []DraftPair {
	for i := range list {
		list[i].PairNumber = i + 1
		start, end := schedule.PairTimes(w.Shift, i+1)
		list[i].StartTime = start
		list[i].EndTime = end
		list[i].TimeOverride = false
	}
	return list
}

// Saver is the slice of the upstream client needed to persist a draft.
type Saver interface {
	EditPairs(ctx context.Context, token string, day studyline.SchedulePayload) error
}

// SaveAll persists every non-empty day, one request per day in weekday
// order. It stops at the first failure so the admin can retry with the draft
// intact; the returned error names the day that failed.
func (w *Week) SaveAll(ctx context.Context, token string, saver Saver) error {
	weekdays := make([]int, 0, len(w.Days))
	for weekday, list := range w.Days {
		if len(list) > 0 {
			weekdays = append(weekdays, weekday)
		}
	}
	sort.Ints(weekdays)
	for _, weekday := range weekdays {
		payload := studyline.SchedulePayload{GroupID: w.GroupID, Weekday: weekday}
		for _, pair := range w.Days[weekday] {
			entry := studyline.PairPayload{
				PairNumber: pair.PairNumber,
				TeacherID:  pair.TeacherID,
				SubjectID:  pair.SubjectID,
				StartTime:  pair.StartTime,
				EndTime:    pair.EndTime,
				Cabinet:    pair.Cabinet,
			}
			if pair.ID > 0 {
				id := pair.ID
				entry.ID = &id
			}
			payload.Pairs = append(payload.Pairs, entry)
		}
		if err := saver.EditPairs(ctx, token, payload); err != nil {
			return fmt.Errorf("save weekday %d: %w", weekday, err)
		}
	}
	return nil
}

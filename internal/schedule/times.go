package schedule

// MaxPairsPerDay caps how many pairs a single day may hold.
const MaxPairsPerDay = 12

// Start/end times by 1-based position within a day. Shift 1 is the morning
// band, shift 2 the afternoon band.
var shiftTimes = map[int][MaxPairsPerDay][2]string{
	1: {
		{"08:00", "08:45"}, {"08:55", "09:40"}, {"09:50", "10:35"}, {"10:55", "11:40"},
		{"11:50", "12:35"}, {"12:45", "13:30"}, {"13:40", "14:25"}, {"14:35", "15:20"},
		{"15:30", "16:15"}, {"16:25", "17:10"}, {"17:20", "18:05"}, {"18:15", "19:00"},
	},
	2: {
		{"13:10", "13:55"}, {"14:05", "14:50"}, {"15:00", "15:45"}, {"16:05", "16:50"},
		{"17:00", "17:45"}, {"17:55", "18:40"}, {"18:50", "19:35"}, {"19:45", "20:30"},
		{"20:40", "21:25"}, {"21:35", "22:20"}, {"22:30", "23:15"}, {"23:20", "23:59"},
	},
}

// PairTimes returns the derived start and end times for a pair at the given
// 1-based position within its day. Unknown shifts use the morning band;
// positions outside the table fall back to a generic slot.
func PairTimes(shift, position int) (string, string) {
	table, ok := shiftTimes[shift]
	if !ok {
		table = shiftTimes[1]
	}
	if position < 1 || position > len(table) {
		return "09:00", "10:00"
	}
	slot := table[position-1]
	return slot[0], slot[1]
}

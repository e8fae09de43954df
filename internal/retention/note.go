package retention

import (
	"strconv"
	"strings"
	"time"
)

// recentYears is how many calendar years, counting the current one, make a
// note "recent" when mentioned in it.
const recentYears = 5

// NoteIsOld reports whether a contact note carries no sign of recent
// activity: it is empty, or mentions none of the current year and the four
// preceding years.
func NoteIsOld(note string, today time.Time) bool {
	if note == "" {
		return true
	}
	for year := today.Year(); year > today.Year()-recentYears; year-- {
		if strings.Contains(note, strconv.Itoa(year)) {
			return false
		}
	}
	return true
}

package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timePattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

	dayNames = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

// ParseDateTime extracts an absolute timestamp from natural language like
// "tomorrow at 10am" or "next friday at 14:30". Relative dates resolve
// against ref, usually the conversation start. The second return is false
// when either the date or the time part is missing.
func ParseDateTime(text string, ref time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	day, dayOK := parseDay(lower, ref)
	hour, minute, timeOK := parseClock(lower)
	if !dayOK || !timeOK {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, ref.Location()), true
}

func parseDay(lower string, ref time.Time) (time.Time, bool) {
	if strings.Contains(lower, "tomorrow") {
		return ref.AddDate(0, 0, 1), true
	}
	if strings.Contains(lower, "today") {
		return ref, true
	}

	nextWeek := strings.Contains(lower, "next")
	for name, weekday := range dayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		ahead := int(weekday) - int(ref.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		if nextWeek {
			ahead += 7
		}
		return ref.AddDate(0, 0, ahead), true
	}
	return time.Time{}, false
}

func parseClock(lower string) (hour, minute int, ok bool) {
	m := timePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, 0, false
	}
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, 0, false
		}
	}

	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, true
}

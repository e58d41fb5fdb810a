package availability

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekday codes as stored in delivery_enabled_days, indexed by time.Weekday
var dayCodes = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// Folded spellings accepted for each weekday in business-hours text
var dayNames = [7][]string{
	{"domingo", "sunday"},
	{"lunes", "monday"},
	{"martes", "tuesday"},
	{"miercoles", "wednesday"},
	{"jueves", "thursday"},
	{"viernes", "friday"},
	{"sabado", "saturday"},
}

// DayCode returns the three-letter Spanish code of d
func DayCode(d time.Weekday) string {
	return dayCodes[d]
}

// fold lowercases s and strips diacritics, so "Mié" and "mie" compare equal
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// parseDay matches a single word against the known day spellings. A word
// matches when it is a prefix of at least three letters of a full name, so
// "Lun", "Mier" and "Thu" all resolve.
func parseDay(word string) (time.Weekday, bool) {
	word = fold(word)
	if len([]rune(word)) < 3 {
		return 0, false
	}
	for d, names := range dayNames {
		for _, name := range names {
			if strings.HasPrefix(name, word) {
				return time.Weekday(d), true
			}
		}
	}
	return 0, false
}

// lookupEnabled finds d in the enabled-days map, ignoring case and accents
func lookupEnabled(days map[string]bool, d time.Weekday) (bool, bool) {
	if v, ok := days[dayCodes[d]]; ok {
		return v, true
	}
	for key, v := range days {
		if day, ok := parseDay(strings.TrimSpace(key)); ok && day == d {
			return v, true
		}
	}
	return false, false
}

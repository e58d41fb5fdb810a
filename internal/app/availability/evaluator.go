package availability

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

var windowPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)

var closedMarkers = []string{"cerrado", "closed"}

// Evaluator decides whether ordering is allowed at the current wall-clock
// time. It never fails: anything it cannot read counts as open.
type Evaluator struct {
	now      func() time.Time
	location *time.Location
}

func NewEvaluator(location *time.Location) *Evaluator {
	if location == nil {
		location = time.UTC
	}
	return &Evaluator{now: time.Now, location: location}
}

// WithClock replaces the time source; used by tests
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Evaluate checks settings against the current time
func (e *Evaluator) Evaluate(settings domain.CompanySettings) interfaces.AvailabilityStatus {
	return e.EvaluateAt(settings, e.now())
}

func (e *Evaluator) EvaluateAt(settings domain.CompanySettings, at time.Time) interfaces.AvailabilityStatus {
	at = at.In(e.location)

	dayEnabled := DayEnabled(settings.DeliveryEnabledDays, at.Weekday())
	withinHours := WithinHours(settings.BusinessHours, at)

	return interfaces.AvailabilityStatus{
		OrderingEnabled: dayEnabled && withinHours,
		DayEnabled:      dayEnabled,
		WithinHours:     withinHours,
		Weekday:         DayCode(at.Weekday()),
		CheckedAt:       at,
	}
}

// IsOrderingEnabled is the combined rule: the day must be enabled and the
// time must fall inside today's business hours.
func IsOrderingEnabled(enabledDays map[string]bool, businessHours string, at time.Time) bool {
	return DayEnabled(enabledDays, at.Weekday()) && WithinHours(businessHours, at)
}

// DayEnabled looks d up in enabledDays. Missing days are enabled.
func DayEnabled(enabledDays map[string]bool, d time.Weekday) bool {
	if v, ok := lookupEnabled(enabledDays, d); ok {
		return v
	}
	return true
}

// WithinHours scans businessHours for the first line that names the day of
// at. A closed marker on that line closes the day; a window is compared
// against the time of day with both bounds inclusive. Without a matching
// line or a readable window the answer is true.
func WithinHours(businessHours string, at time.Time) bool {
	for _, line := range strings.Split(businessHours, "\n") {
		if !lineCoversDay(line, at.Weekday()) {
			continue
		}

		if isClosed(line) {
			return false
		}

		from, to, ok := parseWindow(line)
		if !ok {
			return true
		}
		return inWindow(at.Hour()*60+at.Minute(), from, to)
	}
	return true
}

func isClosed(line string) bool {
	for _, word := range words(fold(line)) {
		for _, marker := range closedMarkers {
			if word == marker {
				return true
			}
		}
	}
	return false
}

type word struct {
	text  string
	start int
	end   int
}

// dayWords splits line into letter runs with their byte offsets
func dayWords(line string) []word {
	var out []word
	start := -1
	for i, r := range line + " " {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, word{text: line[start:i], start: start, end: i})
			start = -1
		}
	}
	return out
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}

// lineCoversDay reports whether line names d, either directly or inside a
// range such as "Lun-Vie". Ranges wrap around the end of the week.
func lineCoversDay(line string, d time.Weekday) bool {
	line = fold(line)
	tokens := dayWords(line)

	for i := 0; i < len(tokens); i++ {
		from, ok := parseDay(tokens[i].text)
		if !ok {
			continue
		}

		if i+1 < len(tokens) && isRangeDash(line[tokens[i].end:tokens[i+1].start]) {
			if to, ok := parseDay(tokens[i+1].text); ok {
				if inDayRange(d, from, to) {
					return true
				}
				i++
				continue
			}
		}

		if from == d {
			return true
		}
	}
	return false
}

func isRangeDash(sep string) bool {
	switch strings.TrimSpace(sep) {
	case "-", "–", "—":
		return true
	}
	return false
}

// inDayRange uses the Monday-first week, so "Lun-Dom" is the whole week and
// "Vie-Lun" wraps over the weekend
func inDayRange(d, from, to time.Weekday) bool {
	pos := func(w time.Weekday) int { return (int(w) + 6) % 7 }
	f, t, x := pos(from), pos(to), pos(d)
	if f <= t {
		return x >= f && x <= t
	}
	return x >= f || x <= t
}

func parseWindow(line string) (int, int, bool) {
	m := windowPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}

	from, ok := minutes(m[1], m[2])
	if !ok {
		return 0, 0, false
	}
	to, ok := minutes(m[3], m[4])
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}

// minutes converts HH:MM into minutes since midnight; 24:00 is accepted as
// the end of the day
func minutes(hh, mm string) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}
	if h > 24 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}

// inWindow compares now against [from, to]. A window closing earlier than
// it opens spans midnight. Both bounds are inclusive, so equal bounds
// admit only that minute.
func inWindow(now, from, to int) bool {
	switch {
	case from <= to:
		return now >= from && now <= to
	default:
		return now >= from || now <= to
	}
}

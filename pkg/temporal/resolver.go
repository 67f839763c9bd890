// Package temporal turns natural-language due-date phrases into calendar dates.
//
// Resolution is deterministic: every call takes an explicit reference date and
// never consults the wall clock. Rules are tried in a fixed order and the first
// one that produces a valid date wins:
//
//  1. explicit month and day ("Oct 30", "october 3rd")
//  2. "next <weekday>"
//  3. "by <weekday>"
//  4. "end of month"
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxInputLength bounds how much text is scanned per call
const MaxInputLength = 10000

var (
	monthDayPattern = regexp.MustCompile(`(?i)\b(` + monthGroup() + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

	nextWeekdayPattern = regexp.MustCompile(`(?i)\bnext\s+` + weekdayGroup + `\b`)
	byWeekdayPattern   = regexp.MustCompile(`(?i)\bby\s+` + weekdayGroup + `\b`)
	endOfMonthPattern  = regexp.MustCompile(`(?i)\bend\s+of\s+(?:the\s+)?month\b`)
)

const weekdayGroup = `(mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)`

// monthGroup matches any prefix of a month name that is at least three letters long
func monthGroup() string {
	alts := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		alts = append(alts, name[:3]+optionalTail(name[3:]))
	}
	return strings.Join(alts, "|")
}

// optionalTail turns "ober" into "(?:o(?:b(?:e(?:r)?)?)?)?"
func optionalTail(rest string) string {
	if rest == "" {
		return ""
	}
	return "(?:" + rest[:1] + optionalTail(rest[1:]) + ")?"
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

var weekdaysByPrefix = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// Resolve finds the first date reference in text relative to ref.
// It returns false when no rule matches.
func Resolve(text string, ref Date) (Date, bool) {
	text = truncate(text, MaxInputLength)

	if d, ok := resolveMonthDay(text, ref); ok {
		return d, true
	}
	if m := nextWeekdayPattern.FindStringSubmatch(text); m != nil {
		return ref.AddDays(daysUntil(ref.Weekday(), weekdayOf(m[1])) + 7), true
	}
	if m := byWeekdayPattern.FindStringSubmatch(text); m != nil {
		offset := daysUntil(ref.Weekday(), weekdayOf(m[1]))
		if offset <= 0 {
			offset += 7
		}
		return ref.AddDays(offset), true
	}
	if endOfMonthPattern.MatchString(text) {
		return EndOfMonth(ref), true
	}
	return Date{}, false
}

// truncate cuts text to at most n bytes without splitting a rune
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

// EndOfMonth returns the last calendar day of ref's month
func EndOfMonth(ref Date) Date {
	// day 28 exists in every month and +4 always lands in the next one
	probe := Date{Year: ref.Year, Month: ref.Month, Day: 28}.AddDays(4)
	return probe.AddDays(-probe.Day)
}

// resolveMonthDay takes the first month/day mention that is a real date.
// Dates already behind ref roll into the following year.
func resolveMonthDay(text string, ref Date) (Date, bool) {
	for _, m := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		month := monthsByPrefix[strings.ToLower(m[1][:3])]
		day, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		d, ok := NewDate(ref.Year, month, day)
		if !ok {
			continue
		}
		if d.Before(ref) {
			next, ok := NewDate(ref.Year+1, month, day)
			if !ok {
				// feb 29 in a leap year, already past
				continue
			}
			d = next
		}
		return d, true
	}
	return Date{}, false
}

// daysUntil is (to - from) mod 7 in the range [0, 6]
func daysUntil(from, to time.Weekday) int {
	return ((int(to)-int(from))%7 + 7) % 7
}

func weekdayOf(word string) time.Weekday {
	return weekdaysByPrefix[strings.ToLower(word[:3])]
}

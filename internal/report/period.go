package report

import (
	"time"

	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

// Kind names the supported report periods.
type Kind string

const (
	KindWeek    Kind = "week"
	KindMonth   Kind = "month"
	KindYear    Kind = "year"
	KindCustom  Kind = "custom"
	KindHistory Kind = "history"
)

// DateLayout is the wire format for report boundary dates.
const DateLayout = "2006-01-02"

// Period is a tagged period specification. Offset applies to week and month
// kinds (0 = current, negative = past); StartDate/EndDate apply to custom.
type Period struct {
	Kind      Kind
	Offset    int
	StartDate string
	EndDate   string
}

// Week builds a week period shifted by whole weeks from the current one.
func Week(offset int) Period { return Period{Kind: KindWeek, Offset: offset} }

// Month builds a month period shifted by whole months from the current one.
func Month(offset int) Period { return Period{Kind: KindMonth, Offset: offset} }

// Year builds the current calendar year period.
func Year() Period { return Period{Kind: KindYear} }

// Custom builds a caller-bounded period from raw date strings.
func Custom(startDate, endDate string) Period {
	return Period{Kind: KindCustom, StartDate: startDate, EndDate: endDate}
}

// ParseKind validates a raw period name. Empty defaults to week.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case "":
		return KindWeek, nil
	case KindWeek, KindMonth, KindYear, KindCustom, KindHistory:
		return Kind(raw), nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown period: "+raw)
	}
}

// Resolve converts a period specification into an inclusive [start, end]
// calendar-day range in the local calendar of now. History is an explicitly
// unimplemented kind and never degrades to another period.
func Resolve(now time.Time, p Period) (time.Time, time.Time, error) {
	switch p.Kind {
	case KindWeek:
		start, end := resolveWeek(now, p.Offset)
		return start, end, nil
	case KindMonth:
		start, end := resolveMonth(now, p.Offset)
		return start, end, nil
	case KindYear:
		start, end := resolveYear(now)
		return start, end, nil
	case KindCustom:
		return resolveCustom(now.Location(), p.StartDate, p.EndDate)
	case KindHistory:
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrNotImplemented, "history reports are not available yet")
	default:
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "unknown period kind")
	}
}

// resolveWeek locates the Monday of the current week, shifts by offset whole
// weeks and returns Monday..Sunday. Weeks always start on Monday.
func resolveWeek(now time.Time, offset int) (time.Time, time.Time) {
	sinceMonday := int(now.Weekday()) - int(time.Monday)
	if sinceMonday < 0 {
		sinceMonday += 7
	}
	monday := truncateToDay(now).AddDate(0, 0, -sinceMonday+offset*7)
	return monday, monday.AddDate(0, 0, 6)
}

// resolveMonth returns the first and last calendar day of the month offset
// months away. time.Date normalises out-of-range months, so year boundaries
// and leap Februaries fall out of the standard library arithmetic.
func resolveMonth(now time.Time, offset int) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	return first, first.AddDate(0, 1, -1)
}

func resolveYear(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	return start, end
}

// resolveCustom parses caller-supplied bounds and returns them unchanged,
// without snapping to any week or month grid.
func resolveCustom(loc *time.Location, startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "missing date")
	}
	start, err := time.ParseInLocation(DateLayout, startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format")
	}
	end, err := time.ParseInLocation(DateLayout, endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start not before end")
	}
	return start, end, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

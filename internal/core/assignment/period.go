package assignment

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout は日付の入出力形式です。
const DateLayout = "2006-01-02"

const (
	shiftLayout        = "15:04"
	shiftLayoutSeconds = "15:04:05"
)

// Day は t を UTC の 0 時に切り詰めた暦日として返します。
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate は YYYY-MM-DD 形式の文字列を暦日に変換します。
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", raw)
	}
	return t, nil
}

// DateRange は両端を含む暦日の区間です。End が nil の場合は終了日なし（無期限）を表します。
type DateRange struct {
	Start time.Time
	End   *time.Time
}

// NewDateRange は start と end を暦日に正規化した DateRange を返します。
func NewDateRange(start time.Time, end *time.Time) DateRange {
	r := DateRange{Start: Day(start)}
	if end != nil {
		e := Day(*end)
		r.End = &e
	}
	return r
}

// Open は終了日のない区間かどうかを返します。
func (r DateRange) Open() bool {
	return r.End == nil
}

// Valid は終了日が開始日以降であるかを返します。
func (r DateRange) Valid() bool {
	return r.End == nil || !r.End.Before(r.Start)
}

// Contains は暦日 d が区間に含まれるかを返します。
func (r DateRange) Contains(d time.Time) bool {
	day := Day(d)
	if day.Before(r.Start) {
		return false
	}
	return r.End == nil || !day.After(*r.End)
}

// Overlaps は二つの区間が一日でも重なるかを返します。終了日なしは +∞ として扱い、境界日の共有も重なりとみなします。
func (r DateRange) Overlaps(other DateRange) bool {
	return endsOnOrAfter(other.End, r.Start) && endsOnOrAfter(r.End, other.Start)
}

func endsOnOrAfter(end *time.Time, day time.Time) bool {
	return end == nil || !end.Before(day)
}

func (r DateRange) String() string {
	if r.End == nil {
		return r.Start.Format(DateLayout) + "..open"
	}
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Shift は一日の勤務時間帯です。時刻は HH:MM 形式で保持します。
type Shift struct {
	Start string
	End   string
}

// ParseShift は勤務開始・終了時刻を検証し正規化します。秒付き (HH:MM:SS) も受け付けます。
func ParseShift(start, end string) (Shift, error) {
	s, err := parseClock(start)
	if err != nil {
		return Shift{}, fmt.Errorf("shift start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Shift{}, fmt.Errorf("shift end: %w", err)
	}
	if s == e {
		return Shift{}, fmt.Errorf("shift start and end must differ")
	}
	return Shift{Start: s, End: e}, nil
}

func parseClock(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("time is required")
	}
	for _, layout := range []string{shiftLayout, shiftLayoutSeconds} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(shiftLayout), nil
		}
	}
	return "", fmt.Errorf("time %q must be HH:MM", raw)
}

// Offsets は開始・終了時刻の 0 時からの経過時間を返します。
func (s Shift) Offsets() (time.Duration, time.Duration) {
	return clockOffset(s.Start), clockOffset(s.End)
}

// CrossesMidnight は終了時刻が開始時刻より前（夜勤）かを返します。
func (s Shift) CrossesMidnight() bool {
	start, end := s.Offsets()
	return end < start
}

func clockOffset(v string) time.Duration {
	t, err := time.Parse(shiftLayout, v)
	if err != nil {
		return 0
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

func (s Shift) String() string {
	return s.Start + "-" + s.End
}

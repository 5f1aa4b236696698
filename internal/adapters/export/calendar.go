package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
)

const calendarProductID = "-//health-office//station scheduler//EN"

// DutyCalendar は職員の配置予定を iCalendar に変換します。
// 配置ごとに勤務時間帯の VEVENT を 1 件作成し、毎日繰り返します。臨時配置は終了日で繰り返しを打ち切ります。
type DutyCalendar struct {
	location *time.Location
}

// NewDutyCalendar は DutyCalendar を生成します。loc が nil の場合は UTC で時刻を解釈します。
func NewDutyCalendar(loc *time.Location) *DutyCalendar {
	if loc == nil {
		loc = time.UTC
	}
	return &DutyCalendar{location: loc}
}

// Render は employeeID の配置予定 schedule をカレンダーにします。
func (c *DutyCalendar) Render(employeeID int64, schedule []*assignment.Assignment) (*Document, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("Station duty %d", employeeID))
	cal.SetXWRTimezone(c.location.String())

	for _, a := range schedule {
		if a == nil || !a.Active {
			continue
		}
		c.addEvent(cal, a)
	}

	return &Document{
		FileName:    fmt.Sprintf("employee-%d-duty.ics", employeeID),
		ContentType: contentTypeCalendar,
		Content:     []byte(cal.Serialize()),
	}, nil
}

func (c *DutyCalendar) addEvent(cal *ics.Calendar, a *assignment.Assignment) {
	start, end := c.shiftBounds(a.StartDate, a.Shift)

	event := cal.AddEvent(fmt.Sprintf("station-assignment-%d@health-office", a.ID))
	event.SetDtStampTime(a.CreatedAt)
	event.SetCreatedTime(a.CreatedAt)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(fmt.Sprintf("%s duty", stationLabel(a)))
	event.SetLocation(stationLabel(a))
	event.SetDescription(fmt.Sprintf("%s assignment, shift %s, %s", a.Kind(), a.Shift, a.Range()))

	rule := "FREQ=DAILY"
	if a.EndDate != nil {
		_, lastEnd := c.shiftBounds(*a.EndDate, a.Shift)
		rule += ";UNTIL=" + lastEnd.UTC().Format("20060102T150405Z")
	}
	event.AddRrule(rule)
}

// shiftBounds は day の勤務開始・終了時刻を返します。日付をまたぐ勤務は翌日に終了します。
func (c *DutyCalendar) shiftBounds(day time.Time, shift assignment.Shift) (time.Time, time.Time) {
	d := assignment.Day(day)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.location)
	startOffset, endOffset := shift.Offsets()

	start := midnight.Add(startOffset)
	end := midnight.Add(endOffset)
	if shift.CrossesMidnight() {
		end = midnight.AddDate(0, 0, 1).Add(endOffset)
	}
	return start, end
}

func stationLabel(a *assignment.Assignment) string {
	if a.StationName != "" {
		return a.StationName
	}
	return fmt.Sprintf("Station %d", a.StationID)
}

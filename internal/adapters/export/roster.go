package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
)

// ErrRenderFailed はファイル生成に失敗した場合に返却されます。
var ErrRenderFailed = errors.New("export: failed to render document")

const rosterSheet = "Roster"

var rosterHeader = []string{"Type", "No.", "Station", "Status", "Employee", "Role", "Shift", "Period", "Kind"}

// RosterWorkbook は指定日の配置状況を xlsx のワークブックに変換します。
type RosterWorkbook struct{}

// NewRosterWorkbook は RosterWorkbook を生成します。
func NewRosterWorkbook() *RosterWorkbook {
	return &RosterWorkbook{}
}

// Render は views を 1 シートの配置表にします。1 行目はタイトル、2 行目はヘッダーです。
func (w *RosterWorkbook) Render(date time.Time, views []*assignment.StationView) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	day := assignment.Day(date).Format(assignment.DateLayout)
	lastCol := colName(len(rosterHeader) - 1)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	vacantStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "#808080"},
	})

	f.SetCellValue(rosterSheet, "A1", fmt.Sprintf("Station roster %s", day))
	f.MergeCell(rosterSheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(rosterSheet, "A1", "A1", headerStyle)

	for i, title := range rosterHeader {
		f.SetCellValue(rosterSheet, cell(colName(i), 2), title)
	}
	f.SetCellStyle(rosterSheet, "A2", cell(lastCol, 2), headerStyle)

	f.SetColWidth(rosterSheet, "A", "B", 12)
	f.SetColWidth(rosterSheet, "C", "C", 20)
	f.SetColWidth(rosterSheet, "D", "D", 10)
	f.SetColWidth(rosterSheet, "E", "E", 24)
	f.SetColWidth(rosterSheet, "F", "I", 16)

	row := 3
	for _, v := range views {
		values := rosterRow(v)
		for i, value := range values {
			f.SetCellValue(rosterSheet, cell(colName(i), row), value)
		}
		if v.Vacant() {
			f.SetCellStyle(rosterSheet, cell("D", row), cell(lastCol, row), vacantStyle)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return &Document{
		FileName:    fmt.Sprintf("station-roster-%s.xlsx", day),
		ContentType: contentTypeXLSX,
		Content:     buf.Bytes(),
	}, nil
}

func rosterRow(v *assignment.StationView) []any {
	st := v.Station
	status := "open"
	if !st.Active {
		status = "closed"
	}
	values := []any{string(st.Type), st.Number, st.Name, status}

	if v.Vacant() {
		return append(values, "vacant", "-", "-", "-", "-")
	}

	a := v.Assignment
	name, role := a.EmployeeName, "-"
	if v.Employee != nil {
		name = v.Employee.Name
		role = string(v.Employee.Role)
	}
	return append(values, name, role, a.Shift.String(), a.Range().String(), string(a.Kind()))
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

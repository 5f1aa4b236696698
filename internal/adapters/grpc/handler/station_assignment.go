package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/health-office-scheduler/internal/adapters/export"
	"github.com/ogurasousui/health-office-scheduler/internal/adapters/grpc/stationv1"
	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// RosterRenderer は配置表のファイルを生成します。
type RosterRenderer interface {
	Render(date time.Time, views []*assignment.StationView) (*export.Document, error)
}

// CalendarRenderer は職員の配置予定カレンダーを生成します。
type CalendarRenderer interface {
	Render(employeeID int64, schedule []*assignment.Assignment) (*export.Document, error)
}

// StationAssignmentHandler は StationAssignmentService の gRPC 実装です。
// 日付を省略できるリクエストでは、設定されたタイムゾーンでの当日を使います。
type StationAssignmentHandler struct {
	assignments assignment.UseCase
	queries     assignment.QueryUseCase
	stations    station.Registry
	roster      RosterRenderer
	calendar    CalendarRenderer
	location    *time.Location
	now         func() time.Time
	stationv1.UnimplementedStationAssignmentServiceServer
}

// HandlerOption は StationAssignmentHandler の任意設定です。
type HandlerOption func(*StationAssignmentHandler)

// WithLocation は「当日」を判定するタイムゾーンを設定します。
func WithLocation(loc *time.Location) HandlerOption {
	return func(h *StationAssignmentHandler) {
		if loc != nil {
			h.location = loc
		}
	}
}

// WithNow は現在時刻の取得関数を差し替えます。
func WithNow(now func() time.Time) HandlerOption {
	return func(h *StationAssignmentHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewStationAssignmentHandler は StationAssignmentHandler を生成します。
func NewStationAssignmentHandler(
	assignments assignment.UseCase,
	queries assignment.QueryUseCase,
	stations station.Registry,
	roster RosterRenderer,
	calendar CalendarRenderer,
	opts ...HandlerOption,
) *StationAssignmentHandler {
	h := &StationAssignmentHandler{
		assignments: assignments,
		queries:     queries,
		stations:    stations,
		roster:      roster,
		calendar:    calendar,
		location:    time.UTC,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Assign は職員をステーションへ配置します。
func (h *StationAssignmentHandler) Assign(ctx context.Context, req *stationv1.AssignRequest) (*stationv1.AssignResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	created, err := h.assignments.Assign(ctx, assignment.AssignInput{
		EmployeeID: req.EmployeeID,
		StationID:  req.StationID,
		StartDate:  start,
		Kind:       assignment.Kind(strings.TrimSpace(req.Kind)),
		EndDate:    end,
		ShiftStart: req.ShiftStart,
		ShiftEnd:   req.ShiftEnd,
		AssignedBy: req.AssignedBy,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.AssignResponse{Assignment: h.toWireAssignment(created)}, nil
}

// Remove はステーションの配置を終了または無効化します。
func (h *StationAssignmentHandler) Remove(ctx context.Context, req *stationv1.RemoveRequest) (*stationv1.RemoveResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	removal, err := parseDate("removal_date", req.RemovalDate)
	if err != nil {
		return nil, err
	}

	removed, err := h.assignments.Remove(ctx, assignment.RemoveInput{
		StationID:   req.StationID,
		RemovalDate: removal,
		Type:        assignment.RemovalType(strings.TrimSpace(req.Type)),
		PerformedBy: req.PerformedBy,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.RemoveResponse{Assignment: h.toWireAssignment(removed)}, nil
}

// Reassign はステーションの担当者を交代します。
func (h *StationAssignmentHandler) Reassign(ctx context.Context, req *stationv1.ReassignRequest) (*stationv1.ReassignResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	date, err := parseDate("reassign_date", req.ReassignDate)
	if err != nil {
		return nil, err
	}

	result, err := h.assignments.Reassign(ctx, assignment.ReassignInput{
		StationID:     req.StationID,
		NewEmployeeID: req.NewEmployeeID,
		ReassignDate:  date,
		AssignedBy:    req.AssignedBy,
		ShiftStart:    req.ShiftStart,
		ShiftEnd:      req.ShiftEnd,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.ReassignResponse{
		Ended:   h.toWireAssignment(result.Ended),
		Created: h.toWireAssignment(result.Created),
	}, nil
}

// ToggleStation はステーションの有効・無効を切り替えます。
func (h *StationAssignmentHandler) ToggleStation(ctx context.Context, req *stationv1.ToggleStationRequest) (*stationv1.ToggleStationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := h.assignments.ToggleStation(ctx, assignment.ToggleStationInput{
		StationID:   req.StationID,
		Active:      req.Active,
		PerformedBy: req.PerformedBy,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.ToggleStationResponse{Station: toWireStation(updated)}, nil
}

// GetStation はステーションを取得します。
func (h *StationAssignmentHandler) GetStation(ctx context.Context, req *stationv1.GetStationRequest) (*stationv1.GetStationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.stations.GetStation(ctx, req.StationID)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.GetStationResponse{Station: toWireStation(found)}, nil
}

// ListStations はステーションの一覧を返します。
func (h *StationAssignmentHandler) ListStations(ctx context.Context, req *stationv1.ListStationsRequest) (*stationv1.ListStationsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := station.ListStationsInput{ActiveOnly: req.ActiveOnly}
	if trimmed := strings.TrimSpace(req.Type); trimmed != "" {
		t := station.Type(trimmed)
		in.Type = &t
	}

	found, err := h.stations.ListStations(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*stationv1.Station, 0, len(found))
	for _, st := range found {
		out = append(out, toWireStation(st))
	}
	return &stationv1.ListStationsResponse{Stations: out}, nil
}

// StationsAsOf は指定日の全ステーションと配置を返します。
func (h *StationAssignmentHandler) StationsAsOf(ctx context.Context, req *stationv1.StationsAsOfRequest) (*stationv1.StationsAsOfResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	date, err := h.dateOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}

	views, err := h.queries.StationsAsOf(ctx, date)
	if err != nil {
		return nil, toStatusError(err)
	}

	slots := make([]*stationv1.StationSlot, 0, len(views))
	for _, v := range views {
		slots = append(slots, h.toWireSlot(v))
	}
	return &stationv1.StationsAsOfResponse{
		Date:     date.Format(assignment.DateLayout),
		Stations: slots,
	}, nil
}

// ActiveEmployeesByFacility は施設の在籍職員を返します。
func (h *StationAssignmentHandler) ActiveEmployeesByFacility(ctx context.Context, req *stationv1.ActiveEmployeesByFacilityRequest) (*stationv1.ActiveEmployeesByFacilityResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.queries.ActiveEmployeesByFacility(ctx, req.FacilityID)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*stationv1.Employee, 0, len(found))
	for _, emp := range found {
		out = append(out, toWireEmployee(emp))
	}
	return &stationv1.ActiveEmployeesByFacilityResponse{Employees: out}, nil
}

// EligibleEmployees はステーションに配置可能な職員と、指定日の配置状況を返します。
func (h *StationAssignmentHandler) EligibleEmployees(ctx context.Context, req *stationv1.EligibleEmployeesRequest) (*stationv1.EligibleEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	date, err := h.dateOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}

	candidates, err := h.queries.EligibleEmployees(ctx, assignment.EligibleEmployeesInput{
		FacilityID: req.FacilityID,
		StationID:  req.StationID,
		Date:       date,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*stationv1.Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, &stationv1.Candidate{
			Employee:  toWireEmployee(c.Employee),
			Current:   h.toWireAssignment(c.Current),
			Available: c.Available(),
		})
	}
	return &stationv1.EligibleEmployeesResponse{Candidates: out}, nil
}

// StationHistory はステーションの配置履歴を返します。
func (h *StationAssignmentHandler) StationHistory(ctx context.Context, req *stationv1.StationHistoryRequest) (*stationv1.StationHistoryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	history, err := h.queries.StationHistory(ctx, req.StationID)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.StationHistoryResponse{Assignments: h.toWireAssignments(history)}, nil
}

// EmployeeSchedule は職員の配置予定を返します。
func (h *StationAssignmentHandler) EmployeeSchedule(ctx context.Context, req *stationv1.EmployeeScheduleRequest) (*stationv1.EmployeeScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	from, err := h.dateOrToday("from", req.From)
	if err != nil {
		return nil, err
	}

	schedule, err := h.queries.EmployeeSchedule(ctx, req.EmployeeID, from)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.EmployeeScheduleResponse{Assignments: h.toWireAssignments(schedule)}, nil
}

// ExportRoster は指定日の配置表を xlsx で返します。
func (h *StationAssignmentHandler) ExportRoster(ctx context.Context, req *stationv1.ExportRosterRequest) (*stationv1.ExportRosterResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	date, err := h.dateOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}

	views, err := h.queries.StationsAsOf(ctx, date)
	if err != nil {
		return nil, toStatusError(err)
	}

	doc, err := h.roster.Render(date, views)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.ExportRosterResponse{Document: toWireDocument(doc)}, nil
}

// EmployeeCalendar は職員の配置予定を iCalendar で返します。
func (h *StationAssignmentHandler) EmployeeCalendar(ctx context.Context, req *stationv1.EmployeeCalendarRequest) (*stationv1.EmployeeCalendarResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	from, err := h.dateOrToday("from", req.From)
	if err != nil {
		return nil, err
	}

	schedule, err := h.queries.EmployeeSchedule(ctx, req.EmployeeID, from)
	if err != nil {
		return nil, toStatusError(err)
	}

	doc, err := h.calendar.Render(req.EmployeeID, schedule)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &stationv1.EmployeeCalendarResponse{Document: toWireDocument(doc)}, nil
}

func (h *StationAssignmentHandler) today() time.Time {
	now := h.now().In(h.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (h *StationAssignmentHandler) dateOrToday(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return h.today(), nil
	}
	return parseDate(field, raw)
}

// parseDate は空文字をゼロ値として返し、必須チェックはユースケースに任せます。
func parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := assignment.ParseDate(raw)
	if err != nil {
		return time.Time{}, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", field, err))
	}
	return t, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *StationAssignmentHandler) toWireAssignment(a *assignment.Assignment) *stationv1.Assignment {
	if a == nil {
		return nil
	}

	out := &stationv1.Assignment{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		StationID:    a.StationID,
		StationName:  a.StationName,
		Kind:         string(a.Kind()),
		StartDate:    a.StartDate.Format(assignment.DateLayout),
		ShiftStart:   a.Shift.Start,
		ShiftEnd:     a.Shift.End,
		Active:       a.Active,
		State:        string(a.State(h.today())),
		AssignedBy:   a.AssignedBy,
		CreatedAt:    a.CreatedAt,
	}
	if a.EndDate != nil {
		out.EndDate = a.EndDate.Format(assignment.DateLayout)
	}
	return out
}

func (h *StationAssignmentHandler) toWireAssignments(list []*assignment.Assignment) []*stationv1.Assignment {
	out := make([]*stationv1.Assignment, 0, len(list))
	for _, a := range list {
		out = append(out, h.toWireAssignment(a))
	}
	return out
}

func (h *StationAssignmentHandler) toWireSlot(v *assignment.StationView) *stationv1.StationSlot {
	st := v.Station
	return &stationv1.StationSlot{
		Station:    toWireStation(&st),
		Assignment: h.toWireAssignment(v.Assignment),
		Employee:   toWireEmployee(v.Employee),
		Vacant:     v.Vacant(),
	}
}

func toWireStation(st *station.Station) *stationv1.Station {
	if st == nil {
		return nil
	}
	return &stationv1.Station{
		ID:        st.ID,
		Name:      st.Name,
		Number:    st.Number,
		Type:      string(st.Type),
		ServiceID: st.ServiceID,
		Active:    st.Active,
	}
}

func toWireEmployee(emp *employee.Employee) *stationv1.Employee {
	if emp == nil {
		return nil
	}
	return &stationv1.Employee{
		ID:         emp.ID,
		FacilityID: emp.FacilityID,
		Name:       emp.Name,
		Role:       string(emp.Role),
		Active:     emp.Active,
	}
}

func toWireDocument(doc *export.Document) *stationv1.Document {
	if doc == nil {
		return nil
	}
	return &stationv1.Document{
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Content:     doc.Content,
	}
}

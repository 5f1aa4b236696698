package stationv1

import "time"

// Station はステーションの表現です。
type Station struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Type      string `json:"type"`
	ServiceID int64  `json:"service_id"`
	Active    bool   `json:"active"`
}

// Employee は職員の表現です。
type Employee struct {
	ID         int64  `json:"id"`
	FacilityID int64  `json:"facility_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
}

// Assignment は配置の表現です。日付は YYYY-MM-DD、勤務時間帯は HH:MM です。
// EndDate が空の場合は終了日なしを表します。
type Assignment struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	StationID    int64     `json:"station_id"`
	StationName  string    `json:"station_name,omitempty"`
	Kind         string    `json:"kind"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	ShiftStart   string    `json:"shift_start"`
	ShiftEnd     string    `json:"shift_end"`
	Active       bool      `json:"active"`
	State        string    `json:"state"`
	AssignedBy   int64     `json:"assigned_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// StationSlot は指定日のステーションと、その日に有効な配置です。空きの場合 Assignment と Employee は nil です。
type StationSlot struct {
	Station    *Station    `json:"station"`
	Assignment *Assignment `json:"assignment,omitempty"`
	Employee   *Employee   `json:"employee,omitempty"`
	Vacant     bool        `json:"vacant"`
}

// Candidate は配置候補の職員です。
type Candidate struct {
	Employee  *Employee   `json:"employee"`
	Current   *Assignment `json:"current,omitempty"`
	Available bool        `json:"available"`
}

// Document はエクスポートしたファイルです。
type Document struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

type AssignRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StationID  int64  `json:"station_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	Kind       string `json:"kind,omitempty"`
	ShiftStart string `json:"shift_start,omitempty"`
	ShiftEnd   string `json:"shift_end,omitempty"`
	AssignedBy int64  `json:"assigned_by"`
}

type AssignResponse struct {
	Assignment *Assignment `json:"assignment"`
}

type RemoveRequest struct {
	StationID   int64  `json:"station_id"`
	RemovalDate string `json:"removal_date"`
	Type        string `json:"type"`
	PerformedBy int64  `json:"performed_by"`
}

type RemoveResponse struct {
	Assignment *Assignment `json:"assignment"`
}

type ReassignRequest struct {
	StationID     int64  `json:"station_id"`
	NewEmployeeID int64  `json:"new_employee_id"`
	ReassignDate  string `json:"reassign_date"`
	AssignedBy    int64  `json:"assigned_by"`
	ShiftStart    string `json:"shift_start,omitempty"`
	ShiftEnd      string `json:"shift_end,omitempty"`
}

type ReassignResponse struct {
	Ended   *Assignment `json:"ended"`
	Created *Assignment `json:"created"`
}

type ToggleStationRequest struct {
	StationID   int64 `json:"station_id"`
	Active      bool  `json:"active"`
	PerformedBy int64 `json:"performed_by"`
}

type ToggleStationResponse struct {
	Station *Station `json:"station"`
}

// GetStationRequest はステーション取得のリクエストです。
type GetStationRequest struct {
	StationID int64 `json:"station_id"`
}

type GetStationResponse struct {
	Station *Station `json:"station"`
}

// ListStationsRequest は Type が空の場合は全種別を対象にします。
type ListStationsRequest struct {
	ActiveOnly bool   `json:"active_only"`
	Type       string `json:"type,omitempty"`
}

type ListStationsResponse struct {
	Stations []*Station `json:"stations"`
}

// StationsAsOfRequest は Date が空の場合はサーバーのタイムゾーンでの当日を対象にします。
type StationsAsOfRequest struct {
	Date string `json:"date,omitempty"`
}

type StationsAsOfResponse struct {
	Date     string         `json:"date"`
	Stations []*StationSlot `json:"stations"`
}

type ActiveEmployeesByFacilityRequest struct {
	FacilityID int64 `json:"facility_id"`
}

type ActiveEmployeesByFacilityResponse struct {
	Employees []*Employee `json:"employees"`
}

type EligibleEmployeesRequest struct {
	FacilityID int64  `json:"facility_id"`
	StationID  int64  `json:"station_id"`
	Date       string `json:"date,omitempty"`
}

type EligibleEmployeesResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

type StationHistoryRequest struct {
	StationID int64 `json:"station_id"`
}

type StationHistoryResponse struct {
	Assignments []*Assignment `json:"assignments"`
}

type EmployeeScheduleRequest struct {
	EmployeeID int64  `json:"employee_id"`
	From       string `json:"from,omitempty"`
}

type EmployeeScheduleResponse struct {
	Assignments []*Assignment `json:"assignments"`
}

type ExportRosterRequest struct {
	Date string `json:"date,omitempty"`
}

type ExportRosterResponse struct {
	Document *Document `json:"document"`
}

type EmployeeCalendarRequest struct {
	EmployeeID int64  `json:"employee_id"`
	From       string `json:"from,omitempty"`
}

type EmployeeCalendarResponse struct {
	Document *Document `json:"document"`
}

package stationv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName は gRPC のサービス名です。
const ServiceName = "healthoffice.station.v1.StationAssignmentService"

// FullMethod はメソッド名から /service/method 形式のパスを組み立てます。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// StationAssignmentServiceServer はサーバー側で実装するインターフェースです。
type StationAssignmentServiceServer interface {
	Assign(context.Context, *AssignRequest) (*AssignResponse, error)
	Remove(context.Context, *RemoveRequest) (*RemoveResponse, error)
	Reassign(context.Context, *ReassignRequest) (*ReassignResponse, error)
	ToggleStation(context.Context, *ToggleStationRequest) (*ToggleStationResponse, error)
	GetStation(context.Context, *GetStationRequest) (*GetStationResponse, error)
	ListStations(context.Context, *ListStationsRequest) (*ListStationsResponse, error)
	StationsAsOf(context.Context, *StationsAsOfRequest) (*StationsAsOfResponse, error)
	ActiveEmployeesByFacility(context.Context, *ActiveEmployeesByFacilityRequest) (*ActiveEmployeesByFacilityResponse, error)
	EligibleEmployees(context.Context, *EligibleEmployeesRequest) (*EligibleEmployeesResponse, error)
	StationHistory(context.Context, *StationHistoryRequest) (*StationHistoryResponse, error)
	EmployeeSchedule(context.Context, *EmployeeScheduleRequest) (*EmployeeScheduleResponse, error)
	ExportRoster(context.Context, *ExportRosterRequest) (*ExportRosterResponse, error)
	EmployeeCalendar(context.Context, *EmployeeCalendarRequest) (*EmployeeCalendarResponse, error)
}

// UnimplementedStationAssignmentServiceServer は未実装メソッドに Unimplemented を返す埋め込み用の型です。
type UnimplementedStationAssignmentServiceServer struct{}

func (UnimplementedStationAssignmentServiceServer) Assign(context.Context, *AssignRequest) (*AssignResponse, error) {
	return nil, unimplemented("Assign")
}

func (UnimplementedStationAssignmentServiceServer) Remove(context.Context, *RemoveRequest) (*RemoveResponse, error) {
	return nil, unimplemented("Remove")
}

func (UnimplementedStationAssignmentServiceServer) Reassign(context.Context, *ReassignRequest) (*ReassignResponse, error) {
	return nil, unimplemented("Reassign")
}

func (UnimplementedStationAssignmentServiceServer) ToggleStation(context.Context, *ToggleStationRequest) (*ToggleStationResponse, error) {
	return nil, unimplemented("ToggleStation")
}

func (UnimplementedStationAssignmentServiceServer) GetStation(context.Context, *GetStationRequest) (*GetStationResponse, error) {
	return nil, unimplemented("GetStation")
}

func (UnimplementedStationAssignmentServiceServer) ListStations(context.Context, *ListStationsRequest) (*ListStationsResponse, error) {
	return nil, unimplemented("ListStations")
}

func (UnimplementedStationAssignmentServiceServer) StationsAsOf(context.Context, *StationsAsOfRequest) (*StationsAsOfResponse, error) {
	return nil, unimplemented("StationsAsOf")
}

func (UnimplementedStationAssignmentServiceServer) ActiveEmployeesByFacility(context.Context, *ActiveEmployeesByFacilityRequest) (*ActiveEmployeesByFacilityResponse, error) {
	return nil, unimplemented("ActiveEmployeesByFacility")
}

func (UnimplementedStationAssignmentServiceServer) EligibleEmployees(context.Context, *EligibleEmployeesRequest) (*EligibleEmployeesResponse, error) {
	return nil, unimplemented("EligibleEmployees")
}

func (UnimplementedStationAssignmentServiceServer) StationHistory(context.Context, *StationHistoryRequest) (*StationHistoryResponse, error) {
	return nil, unimplemented("StationHistory")
}

func (UnimplementedStationAssignmentServiceServer) EmployeeSchedule(context.Context, *EmployeeScheduleRequest) (*EmployeeScheduleResponse, error) {
	return nil, unimplemented("EmployeeSchedule")
}

func (UnimplementedStationAssignmentServiceServer) ExportRoster(context.Context, *ExportRosterRequest) (*ExportRosterResponse, error) {
	return nil, unimplemented("ExportRoster")
}

func (UnimplementedStationAssignmentServiceServer) EmployeeCalendar(context.Context, *EmployeeCalendarRequest) (*EmployeeCalendarResponse, error) {
	return nil, unimplemented("EmployeeCalendar")
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// RegisterStationAssignmentServiceServer はサービスを gRPC サーバーに登録します。
func RegisterStationAssignmentServiceServer(s grpc.ServiceRegistrar, srv StationAssignmentServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc は StationAssignmentService のサービス定義です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StationAssignmentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Assign", StationAssignmentServiceServer.Assign),
		unaryMethod("Remove", StationAssignmentServiceServer.Remove),
		unaryMethod("Reassign", StationAssignmentServiceServer.Reassign),
		unaryMethod("ToggleStation", StationAssignmentServiceServer.ToggleStation),
		unaryMethod("GetStation", StationAssignmentServiceServer.GetStation),
		unaryMethod("ListStations", StationAssignmentServiceServer.ListStations),
		unaryMethod("StationsAsOf", StationAssignmentServiceServer.StationsAsOf),
		unaryMethod("ActiveEmployeesByFacility", StationAssignmentServiceServer.ActiveEmployeesByFacility),
		unaryMethod("EligibleEmployees", StationAssignmentServiceServer.EligibleEmployees),
		unaryMethod("StationHistory", StationAssignmentServiceServer.StationHistory),
		unaryMethod("EmployeeSchedule", StationAssignmentServiceServer.EmployeeSchedule),
		unaryMethod("ExportRoster", StationAssignmentServiceServer.ExportRoster),
		unaryMethod("EmployeeCalendar", StationAssignmentServiceServer.EmployeeCalendar),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "healthoffice/station/v1/station_assignment.json",
}

func unaryMethod[Req, Resp any](name string, call func(StationAssignmentServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(StationAssignmentServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// StationAssignmentServiceClient は StationAssignmentService のクライアントです。
// すべての呼び出しで JSON コーデックを指定します。
type StationAssignmentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStationAssignmentServiceClient はクライアントを生成します。
func NewStationAssignmentServiceClient(cc grpc.ClientConnInterface) *StationAssignmentServiceClient {
	return &StationAssignmentServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *StationAssignmentServiceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StationAssignmentServiceClient) Assign(ctx context.Context, in *AssignRequest, opts ...grpc.CallOption) (*AssignResponse, error) {
	return invoke[AssignResponse](ctx, c, "Assign", in, opts)
}

func (c *StationAssignmentServiceClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*RemoveResponse, error) {
	return invoke[RemoveResponse](ctx, c, "Remove", in, opts)
}

func (c *StationAssignmentServiceClient) Reassign(ctx context.Context, in *ReassignRequest, opts ...grpc.CallOption) (*ReassignResponse, error) {
	return invoke[ReassignResponse](ctx, c, "Reassign", in, opts)
}

func (c *StationAssignmentServiceClient) ToggleStation(ctx context.Context, in *ToggleStationRequest, opts ...grpc.CallOption) (*ToggleStationResponse, error) {
	return invoke[ToggleStationResponse](ctx, c, "ToggleStation", in, opts)
}

func (c *StationAssignmentServiceClient) GetStation(ctx context.Context, in *GetStationRequest, opts ...grpc.CallOption) (*GetStationResponse, error) {
	return invoke[GetStationResponse](ctx, c, "GetStation", in, opts)
}

func (c *StationAssignmentServiceClient) ListStations(ctx context.Context, in *ListStationsRequest, opts ...grpc.CallOption) (*ListStationsResponse, error) {
	return invoke[ListStationsResponse](ctx, c, "ListStations", in, opts)
}

func (c *StationAssignmentServiceClient) StationsAsOf(ctx context.Context, in *StationsAsOfRequest, opts ...grpc.CallOption) (*StationsAsOfResponse, error) {
	return invoke[StationsAsOfResponse](ctx, c, "StationsAsOf", in, opts)
}

func (c *StationAssignmentServiceClient) ActiveEmployeesByFacility(ctx context.Context, in *ActiveEmployeesByFacilityRequest, opts ...grpc.CallOption) (*ActiveEmployeesByFacilityResponse, error) {
	return invoke[ActiveEmployeesByFacilityResponse](ctx, c, "ActiveEmployeesByFacility", in, opts)
}

func (c *StationAssignmentServiceClient) EligibleEmployees(ctx context.Context, in *EligibleEmployeesRequest, opts ...grpc.CallOption) (*EligibleEmployeesResponse, error) {
	return invoke[EligibleEmployeesResponse](ctx, c, "EligibleEmployees", in, opts)
}

func (c *StationAssignmentServiceClient) StationHistory(ctx context.Context, in *StationHistoryRequest, opts ...grpc.CallOption) (*StationHistoryResponse, error) {
	return invoke[StationHistoryResponse](ctx, c, "StationHistory", in, opts)
}

func (c *StationAssignmentServiceClient) EmployeeSchedule(ctx context.Context, in *EmployeeScheduleRequest, opts ...grpc.CallOption) (*EmployeeScheduleResponse, error) {
	return invoke[EmployeeScheduleResponse](ctx, c, "EmployeeSchedule", in, opts)
}

func (c *StationAssignmentServiceClient) ExportRoster(ctx context.Context, in *ExportRosterRequest, opts ...grpc.CallOption) (*ExportRosterResponse, error) {
	return invoke[ExportRosterResponse](ctx, c, "ExportRoster", in, opts)
}

func (c *StationAssignmentServiceClient) EmployeeCalendar(ctx context.Context, in *EmployeeCalendarRequest, opts ...grpc.CallOption) (*EmployeeCalendarResponse, error) {
	return invoke[EmployeeCalendarResponse](ctx, c, "EmployeeCalendar", in, opts)
}

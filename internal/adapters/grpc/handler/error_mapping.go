package handler

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/health-office-scheduler/internal/adapters/export"
	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// errorDomain は ErrorInfo に設定するドメイン名です。
const errorDomain = "healthoffice.station.v1"

const (
	reasonEmployeeAlreadyAssigned = "EMPLOYEE_ALREADY_ASSIGNED"
	reasonStationAlreadyOccupied  = "STATION_ALREADY_OCCUPIED"
	reasonRoleMismatch            = "ROLE_MISMATCH"
)

const internalMessage = "internal error"

func toStatusError(err error) error {
	if err == nil {
		return nil
	}

	var conflict *assignment.ConflictError
	if errors.As(err, &conflict) {
		return withErrorInfo(codes.FailedPrecondition, err.Error(), conflictReason(conflict), conflictMetadata(conflict))
	}

	var mismatch *assignment.RoleMismatchError
	if errors.As(err, &mismatch) {
		return withErrorInfo(codes.FailedPrecondition, err.Error(), reasonRoleMismatch, map[string]string{
			"employee_id":  strconv.FormatInt(mismatch.EmployeeID, 10),
			"role":         string(mismatch.Role),
			"station_type": string(mismatch.StationType),
		})
	}

	switch {
	case errors.Is(err, assignment.ErrValidation),
		errors.Is(err, assignment.ErrInvalidRemovalDate),
		errors.Is(err, station.ErrInvalidID),
		errors.Is(err, station.ErrInvalidType),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFacilityID),
		errors.Is(err, employee.ErrInvalidRole):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, assignment.ErrNoActiveAssignment),
		errors.Is(err, assignment.ErrNoCurrentAssignment),
		errors.Is(err, assignment.ErrAssignmentNotFound),
		errors.Is(err, station.ErrStationNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, assignment.ErrStationInactive),
		errors.Is(err, assignment.ErrEmployeeInactive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, assignment.ErrStorage), errors.Is(err, export.ErrRenderFailed):
		return status.Error(codes.Internal, internalMessage)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, internalMessage)
	}
}

func withErrorInfo(code codes.Code, message, reason string, metadata map[string]string) error {
	st := status.New(code, message)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func conflictReason(c *assignment.ConflictError) string {
	if c.Subject == assignment.SubjectEmployee {
		return reasonEmployeeAlreadyAssigned
	}
	return reasonStationAlreadyOccupied
}

// conflictMetadata は衝突した既存配置の内容を返します。排他制約で検出した場合は既存配置が不明なため主体のみです。
func conflictMetadata(c *assignment.ConflictError) map[string]string {
	md := map[string]string{"subject": string(c.Subject)}
	a := c.Existing
	if a == nil {
		return md
	}

	md["assignment_id"] = strconv.FormatInt(a.ID, 10)
	md["station_id"] = strconv.FormatInt(a.StationID, 10)
	md["employee_id"] = strconv.FormatInt(a.EmployeeID, 10)
	md["shift"] = a.Shift.String()
	md["start_date"] = a.StartDate.Format(assignment.DateLayout)
	if a.EndDate != nil {
		md["end_date"] = a.EndDate.Format(assignment.DateLayout)
	}
	if a.StationName != "" {
		md["station_name"] = a.StationName
	}
	if a.EmployeeName != "" {
		md["employee_name"] = a.EmployeeName
	}
	return md
}

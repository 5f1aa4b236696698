package employee

import "errors"

var (
	ErrInvalidID         = errors.New("employee: invalid id")
	ErrInvalidFacilityID = errors.New("employee: invalid facility id")
	ErrInvalidRole       = errors.New("employee: invalid role")
	ErrEmployeeNotFound  = errors.New("employee: not found")
)

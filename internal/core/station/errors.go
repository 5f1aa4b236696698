package station

import "errors"

var (
	// ErrStationNotFound はステーションが存在しない場合に返却されます。
	ErrStationNotFound = errors.New("station: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("station: invalid id")
	// ErrInvalidType は種別が不正な場合に返却されます。
	ErrInvalidType = errors.New("station: invalid type")
)

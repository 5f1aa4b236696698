package station

import "time"

// Type はステーションの種別を表します。
type Type string

const (
	TypeCheckIn      Type = "check_in"
	TypeTriage       Type = "triage"
	TypeConsultation Type = "consultation"
	TypeLaboratory   Type = "laboratory"
	TypePharmacy     Type = "pharmacy"
	TypeBilling      Type = "billing"
	TypeDocument     Type = "document"
)

// Types は既知のステーション種別の一覧です。表示順を兼ねます。
var Types = []Type{
	TypeCheckIn,
	TypeTriage,
	TypeConsultation,
	TypeLaboratory,
	TypePharmacy,
	TypeBilling,
	TypeDocument,
}

// IsValid は既知の種別かどうかを返します。
func (t Type) IsValid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Station は窓口・診察室などの物理的なサービス拠点です。削除は行わず、Active フラグで無効化します。
type Station struct {
	ID        int64
	Name      string
	Number    int
	Type      Type
	ServiceID int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

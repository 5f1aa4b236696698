package assignment

import (
	"context"
	"sort"
)

// Detector は配置候補の期間重複を検出します。
type Detector struct {
	finder OverlapFinder
}

// NewDetector は Detector を生成します。
func NewDetector(finder OverlapFinder) *Detector {
	return &Detector{finder: finder}
}

// FindOverlap は q と重なる有効な配置のうち開始日が最も早いものを返します。重複がない場合は nil です。
func (d *Detector) FindOverlap(ctx context.Context, q OverlapQuery) (*Assignment, error) {
	conflicts, err := d.FindOverlaps(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return conflicts[0], nil
}

// FindOverlaps は q と重なる有効な配置をすべて開始日順で返します。
func (d *Detector) FindOverlaps(ctx context.Context, q OverlapQuery) ([]*Assignment, error) {
	candidates, err := d.finder.FindOverlapping(ctx, q)
	if err != nil {
		return nil, err
	}
	return Conflicts(candidates, q), nil
}

// Conflicts は candidates から q と衝突するものだけを抽出します。
// 無効化された配置は期間に関わらず衝突しません。
func Conflicts(candidates []*Assignment, q OverlapQuery) []*Assignment {
	var out []*Assignment
	for _, a := range candidates {
		if a == nil || !a.Active {
			continue
		}
		if !matchesSubject(a, q) {
			continue
		}
		if q.ExcludeAssignmentID > 0 && a.ID == q.ExcludeAssignmentID {
			continue
		}
		if q.ExcludeStationID > 0 && a.StationID == q.ExcludeStationID {
			continue
		}
		if !a.Range().Overlaps(q.Range) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matchesSubject(a *Assignment, q OverlapQuery) bool {
	switch q.Subject {
	case SubjectEmployee:
		return a.EmployeeID == q.SubjectID
	case SubjectStation:
		return a.StationID == q.SubjectID
	default:
		return false
	}
}

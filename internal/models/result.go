package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

// Result is the derived scoring projection of a submission. It is replaced
// wholesale on every recompute.
type Result struct {
	SubmissionID uuid.UUID `json:"submission_id" gorm:"type:uuid;primaryKey"`

	// Raw flow point totals
	FlowA int `json:"flow_a" gorm:"column:flow_a;not null;default:0"`
	FlowB int `json:"flow_b" gorm:"column:flow_b;not null;default:0"`
	FlowC int `json:"flow_c" gorm:"column:flow_c;not null;default:0"`
	FlowD int `json:"flow_d" gorm:"column:flow_d;not null;default:0"`

	// Resolved flow distribution, fallback applied
	FlowAPct int `json:"flow_a_pct" gorm:"column:flow_a_pct;not null;default:0"`
	FlowBPct int `json:"flow_b_pct" gorm:"column:flow_b_pct;not null;default:0"`
	FlowCPct int `json:"flow_c_pct" gorm:"column:flow_c_pct;not null;default:0"`
	FlowDPct int `json:"flow_d_pct" gorm:"column:flow_d_pct;not null;default:0"`

	ProfileCode    string         `json:"profile_code" gorm:"size:8;not null;index"`
	Fallback       string         `json:"fallback" gorm:"size:16;not null;default:none"`
	ProfileRanking datatypes.JSON `json:"profile_ranking" gorm:"type:jsonb"`

	ComputedAt time.Time `json:"computed_at"`
}

func (Result) TableName() string {
	return "results"
}

// NewResult flattens a resolved outcome into its persisted row.
func NewResult(submissionID uuid.UUID, out scoring.Outcome, computedAt time.Time) (*Result, error) {
	ranking := out.ProfileRanking
	if ranking == nil {
		ranking = []scoring.ProfileShare{}
	}
	data, err := json.Marshal(ranking)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile ranking: %w", err)
	}

	return &Result{
		SubmissionID:   submissionID,
		FlowA:          out.FlowTotals[scoring.FlowA],
		FlowB:          out.FlowTotals[scoring.FlowB],
		FlowC:          out.FlowTotals[scoring.FlowC],
		FlowD:          out.FlowTotals[scoring.FlowD],
		FlowAPct:       out.FlowPercent[scoring.FlowA],
		FlowBPct:       out.FlowPercent[scoring.FlowB],
		FlowCPct:       out.FlowPercent[scoring.FlowC],
		FlowDPct:       out.FlowPercent[scoring.FlowD],
		ProfileCode:    string(out.PrimaryProfile),
		Fallback:       string(out.Fallback),
		ProfileRanking: datatypes.JSON(data),
		ComputedAt:     computedAt,
	}, nil
}

// Outcome rebuilds the resolved outcome from the stored row.
func (r *Result) Outcome() (scoring.Outcome, error) {
	out := scoring.Outcome{
		FlowTotals: map[scoring.FlowCode]int{
			scoring.FlowA: r.FlowA,
			scoring.FlowB: r.FlowB,
			scoring.FlowC: r.FlowC,
			scoring.FlowD: r.FlowD,
		},
		FlowPercent: map[scoring.FlowCode]int{
			scoring.FlowA: r.FlowAPct,
			scoring.FlowB: r.FlowBPct,
			scoring.FlowC: r.FlowCPct,
			scoring.FlowD: r.FlowDPct,
		},
		PrimaryProfile: scoring.ProfileCode(r.ProfileCode),
		Fallback:       scoring.Fallback(r.Fallback),
		ProfileRanking: []scoring.ProfileShare{},
	}
	if len(r.ProfileRanking) > 0 {
		if err := json.Unmarshal(r.ProfileRanking, &out.ProfileRanking); err != nil {
			return scoring.Outcome{}, fmt.Errorf("failed to decode profile ranking: %w", err)
		}
	}
	return out, nil
}

// SameContent reports whether two results carry identical scored content,
// ignoring the computation timestamp and jsonb formatting.
func (r *Result) SameContent(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.SubmissionID != other.SubmissionID {
		return false
	}
	a, errA := r.Outcome()
	b, errB := other.Outcome()
	if errA != nil || errB != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

// ===== TEST CATALOGUE REQUESTS =====

type CreateTestRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Active      *bool   `json:"active"`
}

type UpdateTestRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Active      *bool   `json:"active"`
}

type AddQuestionRequest struct {
	Prompt  string              `json:"prompt" validate:"required,min=1,max=4000"`
	Type    models.QuestionType `json:"type" validate:"required,question_type"`
	Scoring *bool               `json:"scoring"`
	Order   *int                `json:"order" validate:"omitempty,gte=0"`
}

type AddOptionRequest struct {
	Label       string  `json:"label" validate:"required,min=1,max=1000"`
	Points      *int    `json:"points" validate:"omitempty,points_range"`
	ProfileCode *string `json:"profile_code" validate:"omitempty,profile_code"`
	FlowCode    *string `json:"flow_code" validate:"omitempty,flow_code"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

// ===== SUBMISSION REQUESTS =====

type StartSubmissionRequest struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
}

type RecordAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	OptionIDs  []uint `json:"option_ids" validate:"dive,gt=0"`
}

// ===== RESPONSES =====

// ResultResponse is the client report for one submission.
type ResultResponse struct {
	SubmissionID     uuid.UUID                `json:"submission_id"`
	TestID           uint                     `json:"test_id"`
	PrimaryProfile   scoring.ProfileCode      `json:"primary_profile"`
	PrimaryFlow      scoring.FlowCode         `json:"primary_flow"`
	PrimaryFlowLabel string                   `json:"primary_flow_label"`
	FlowTotals       map[scoring.FlowCode]int `json:"flow_totals"`
	FlowPercent      map[scoring.FlowCode]int `json:"flow_percent"`
	ProfileRanking   []scoring.ProfileShare   `json:"profile_ranking"`
	Fallback         scoring.Fallback         `json:"fallback"`
	ComputedAt       *time.Time               `json:"computed_at,omitempty"`
	Persisted        bool                     `json:"persisted"`
}

func newResultResponse(submission *models.Submission, out scoring.Outcome, computedAt *time.Time) *ResultResponse {
	primaryFlow := scoring.PrimaryFlow(out.PrimaryProfile)
	return &ResultResponse{
		SubmissionID:     submission.ID,
		TestID:           submission.TestID,
		PrimaryProfile:   out.PrimaryProfile,
		PrimaryFlow:      primaryFlow,
		PrimaryFlowLabel: primaryFlow.Label(),
		FlowTotals:       out.FlowTotals,
		FlowPercent:      out.FlowPercent,
		ProfileRanking:   out.ProfileRanking,
		Fallback:         out.Fallback,
		ComputedAt:       computedAt,
		Persisted:        computedAt != nil,
	}
}

// PublicTest is what a respondent sees: no points, no tags.
type PublicTest struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Questions   []PublicQuestion `json:"questions"`
}

type PublicQuestion struct {
	ID      uint                `json:"id"`
	Order   int                 `json:"order"`
	Prompt  string              `json:"prompt"`
	Type    models.QuestionType `json:"type"`
	Options []PublicOption      `json:"options"`
}

type PublicOption struct {
	ID    uint   `json:"id"`
	Order int    `json:"order"`
	Label string `json:"label"`
}

func newPublicTest(test *models.Test) *PublicTest {
	out := &PublicTest{
		ID:          test.ID,
		Title:       test.Title,
		Description: test.Description,
		Questions:   make([]PublicQuestion, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		pq := PublicQuestion{
			ID:      q.ID,
			Order:   q.Order,
			Prompt:  q.Prompt,
			Type:    q.Type,
			Options: make([]PublicOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			pq.Options = append(pq.Options, PublicOption{ID: o.ID, Order: o.Order, Label: o.Label})
		}
		out.Questions = append(out.Questions, pq)
	}
	return out
}

type TestListResponse struct {
	Tests  []*models.Test `json:"tests"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type SubmissionListResponse struct {
	Submissions []*models.Submission `json:"submissions"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// TestStats is the admin dashboard summary for one test.
type TestStats struct {
	TestID              uint                              `json:"test_id"`
	Submissions         map[models.SubmissionStatus]int64 `json:"submissions"`
	TotalSubmissions    int64                             `json:"total_submissions"`
	ScoredResults       int64                             `json:"scored_results"`
	ProfileDistribution map[string]int64                  `json:"profile_distribution"`
	AverageFlowPercent  map[scoring.FlowCode]float64      `json:"average_flow_percent"`
}

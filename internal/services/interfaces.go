package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

// ScoringService runs the collect -> aggregate -> resolve pipeline.
type ScoringService interface {
	// Finish scores the submission, stores the result and marks it finished.
	Finish(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error)
	// Rescore recomputes and replaces the stored result of a finished submission.
	Rescore(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error)
	GetResult(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error)
	// Preview computes the outcome from the current answers without storing it.
	Preview(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error)
}

type SubmissionService interface {
	Start(ctx context.Context, testID uint, req *StartSubmissionRequest) (*models.Submission, error)
	RecordAnswer(ctx context.Context, submissionID uuid.UUID, req *RecordAnswerRequest) (*models.Answer, error)
	Get(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error)
	List(ctx context.Context, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
	Delete(ctx context.Context, submissionID uuid.UUID) error
}

type TestService interface {
	CreateTest(ctx context.Context, req *CreateTestRequest) (*models.Test, error)
	UpdateTest(ctx context.Context, id uint, req *UpdateTestRequest) (*models.Test, error)
	ListTests(ctx context.Context, filters repositories.TestFilters) (*TestListResponse, error)
	GetTest(ctx context.Context, id uint) (*models.Test, error)
	GetPublicTest(ctx context.Context, id uint) (*PublicTest, error)
	AddQuestion(ctx context.Context, testID uint, req *AddQuestionRequest) (*models.Question, error)
	AddOption(ctx context.Context, questionID uint, req *AddOptionRequest) (*models.Option, error)
	DeleteQuestion(ctx context.Context, id uint) error
	DeleteOption(ctx context.Context, id uint) error
	GetTestStats(ctx context.Context, testID uint) (*TestStats, error)
}

type ExportService interface {
	ExportResultsCSV(ctx context.Context, testID uint, w io.Writer) error
	ExportResultsXLSX(ctx context.Context, testID uint, w io.Writer) error
}
